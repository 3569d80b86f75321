// Package utils provides watermill message helpers shared by handlers.
package utils

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// TopicMetadataKey is where result messages carry their destination topic for
// handlers that can emit more than one output topic.
const TopicMetadataKey = "topic"

// Helpers builds and unpacks watermill messages.
type Helpers interface {
	UnmarshalPayload(msg *message.Message, out any) error
	CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error)
	CreateNewMessage(payload any, topic string) (*message.Message, error)
}

type helpers struct{}

// NewHelpers returns the standard JSON-based Helpers implementation.
func NewHelpers() Helpers { return helpers{} }

func (helpers) UnmarshalPayload(msg *message.Message, out any) error {
	if err := json.Unmarshal(msg.Payload, out); err != nil {
		return fmt.Errorf("failed to unmarshal payload into %T: %w", out, err)
	}
	return nil
}

// CreateResultMessage builds a message carrying payload, propagating the
// original message's correlation ID and stamping the destination topic.
func (helpers) CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(TopicMetadataKey, topic)
	if original != nil {
		middleware.SetCorrelationID(middleware.MessageCorrelationID(original), msg)
	}
	return msg, nil
}

// CreateNewMessage builds a message with a fresh correlation ID.
func (helpers) CreateNewMessage(payload any, topic string) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(TopicMetadataKey, topic)
	middleware.SetCorrelationID(watermill.NewUUID(), msg)
	return msg, nil
}
