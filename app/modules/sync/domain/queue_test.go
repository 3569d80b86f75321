package syncdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAction_IsValid(t *testing.T) {
	assert.True(t, ActionSubmitScore.IsValid())
	assert.True(t, ActionUpdateScore.IsValid())
	assert.True(t, ActionCreateRegistration.IsValid())
	assert.False(t, Action("deleteEverything").IsValid())
	assert.False(t, Action("").IsValid())
}

func TestNextAfterFailure(t *testing.T) {
	t.Run("below the ceiling items go back to pending", func(t *testing.T) {
		retries, status := NextAfterFailure(0, MaxRetries)
		assert.Equal(t, 1, retries)
		assert.Equal(t, StatusPending, status)

		retries, status = NextAfterFailure(1, MaxRetries)
		assert.Equal(t, 2, retries)
		assert.Equal(t, StatusPending, status)
	})

	t.Run("third failure freezes the item", func(t *testing.T) {
		retries, status := NextAfterFailure(2, MaxRetries)
		assert.Equal(t, 3, retries)
		assert.Equal(t, StatusFailed, status)
	})

	t.Run("past the ceiling stays failed", func(t *testing.T) {
		_, status := NextAfterFailure(7, MaxRetries)
		assert.Equal(t, StatusFailed, status)
	})
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
