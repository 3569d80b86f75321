package utils

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// MiddlewareHelpers builds router middleware shared by every module router.
type MiddlewareHelpers interface {
	// CommonMetadataMiddleware stamps the handling domain and receipt time on
	// every message passing through a module's router.
	CommonMetadataMiddleware(domain string) message.HandlerMiddleware
}

type middlewareHelpers struct{}

// NewMiddlewareHelper returns the standard MiddlewareHelpers implementation.
func NewMiddlewareHelper() MiddlewareHelpers { return middlewareHelpers{} }

func (middlewareHelpers) CommonMetadataMiddleware(domain string) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			msg.Metadata.Set("domain", domain)
			if msg.Metadata.Get("received_at") == "" {
				msg.Metadata.Set("received_at", time.Now().UTC().Format(time.RFC3339))
			}
			return h(msg)
		}
	}
}
