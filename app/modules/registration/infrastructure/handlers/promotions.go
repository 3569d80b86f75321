package registrationhandlers

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	registrationevents "github.com/cascade-defensive-pistol/match-engine/app/modules/registration/events"
)

// appendPromotionMessages fans each waitlist promotion out as its own event so
// downstream consumers (notifications, sync) see promotions individually.
func (h *RegistrationHandlers) appendPromotionMessages(msgs []*message.Message, source *message.Message, promoted []registrationevents.ShooterPromotedPayloadV1) ([]*message.Message, error) {
	for i := range promoted {
		promotionMsg, err := h.helpers.CreateResultMessage(source, &promoted[i], registrationevents.ShooterPromotedV1)
		if err != nil {
			return nil, fmt.Errorf("failed to create promotion message: %w", err)
		}
		msgs = append(msgs, promotionMsg)
	}
	return msgs, nil
}
