package rankingdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

func finisher(id string, division sharedtypes.Division, class sharedtypes.Classification, finalScore float64) ShooterAggregate {
	return ShooterAggregate{
		ShooterID:       sharedtypes.ShooterID(id),
		Division:        division,
		Classification:  class,
		FinalScore:      finalScore,
		CompletedStages: 6,
		TotalStages:     6,
	}
}

func TestRank_OrdersByFinalScore(t *testing.T) {
	results := Rank([]ShooterAggregate{
		finisher("A100003", "SSP", "MM", 150.0),
		finisher("A100001", "SSP", "MM", 120.5),
		finisher("A100002", "SSP", "MM", 135.2),
	})

	require.Len(t, results, 3)
	assert.Equal(t, sharedtypes.ShooterID("A100001"), results[0].ShooterID)
	assert.Equal(t, sharedtypes.ShooterID("A100002"), results[1].ShooterID)
	assert.Equal(t, sharedtypes.ShooterID("A100003"), results[2].ShooterID)
	for i, r := range results {
		assert.Equal(t, i+1, r.Rankings.Overall)
	}
}

func TestRank_DNFAndDQSortAfterAllFinishers(t *testing.T) {
	dq := finisher("A100001", "SSP", "MM", 50.0)
	dq.DQ = true
	dnf := finisher("A100002", "SSP", "MM", 10.0)
	dnf.DNF = true
	slow := finisher("A100003", "SSP", "MM", 400.0)

	results := Rank([]ShooterAggregate{dq, dnf, slow})

	require.Len(t, results, 3)
	// The slowest finisher still beats every DNF/DQ, whatever their times say.
	assert.Equal(t, sharedtypes.ShooterID("A100003"), results[0].ShooterID)
	// Ties among DNF/DQ break by shooter id for determinism.
	assert.Equal(t, sharedtypes.ShooterID("A100001"), results[1].ShooterID)
	assert.Equal(t, sharedtypes.ShooterID("A100002"), results[2].ShooterID)
}

func TestRank_ParallelDivisionAndClassificationRanks(t *testing.T) {
	results := Rank([]ShooterAggregate{
		finisher("A100001", "SSP", "MM", 100.0),
		finisher("A100002", "ESP", "MM", 110.0),
		finisher("A100003", "SSP", "EX", 120.0),
		finisher("A100004", "SSP", "MM", 130.0),
	})

	byShooter := map[string]RankedResult{}
	for _, r := range results {
		byShooter[string(r.ShooterID)] = r
	}

	// Overall follows final score across divisions.
	assert.Equal(t, 1, byShooter["A100001"].Rankings.Overall)
	assert.Equal(t, 2, byShooter["A100002"].Rankings.Overall)

	// Division ranks only count shooters in the same division.
	assert.Equal(t, 1, byShooter["A100001"].Rankings.Division)
	assert.Equal(t, 1, byShooter["A100002"].Rankings.Division)
	assert.Equal(t, 2, byShooter["A100003"].Rankings.Division)
	assert.Equal(t, 3, byShooter["A100004"].Rankings.Division)

	// Classification ranks are scoped within the division.
	assert.Equal(t, 1, byShooter["A100001"].Rankings.Classification)
	assert.Equal(t, 1, byShooter["A100003"].Rankings.Classification)
	assert.Equal(t, 2, byShooter["A100004"].Rankings.Classification)
}

func TestRank_CustomCategoryRanks(t *testing.T) {
	lady := finisher("A100002", "SSP", "MM", 110.0)
	lady.CustomCategories = []string{"lady"}
	ladySenior := finisher("A100003", "SSP", "MM", 120.0)
	ladySenior.CustomCategories = []string{"lady", "senior"}
	open := finisher("A100001", "SSP", "MM", 100.0)

	results := Rank([]ShooterAggregate{open, lady, ladySenior})

	byShooter := map[string]RankedResult{}
	for _, r := range results {
		byShooter[string(r.ShooterID)] = r
	}

	assert.Nil(t, byShooter["A100001"].Rankings.CustomCategory)
	assert.Equal(t, 1, byShooter["A100002"].Rankings.CustomCategory["lady"])
	assert.Equal(t, 2, byShooter["A100003"].Rankings.CustomCategory["lady"])
	assert.Equal(t, 1, byShooter["A100003"].Rankings.CustomCategory["senior"])
}

func TestCompletionPct(t *testing.T) {
	agg := ShooterAggregate{CompletedStages: 3, TotalStages: 6}
	assert.InDelta(t, 0.5, agg.CompletionPct(), 1e-9)

	empty := ShooterAggregate{}
	assert.Zero(t, empty.CompletionPct())
}
