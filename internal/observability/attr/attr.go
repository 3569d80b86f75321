// Package attr provides slog attribute helpers shared by every module.
package attr

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

type correlationIDCtxKey struct{}

// String returns a string attribute.
func String(key, value string) slog.Attr { return slog.String(key, value) }

// Int returns an int attribute.
func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

// Int64 returns an int64 attribute.
func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

// Float64 returns a float64 attribute.
func Float64(key string, value float64) slog.Attr { return slog.Float64(key, value) }

// Bool returns a bool attribute.
func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

// Time returns a time attribute.
func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }

// Duration returns a duration attribute.
func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

// Any returns an attribute for an arbitrary value.
func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

// Error returns an "error" attribute; nil-safe.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// WithCorrelationID stores a correlation ID on the context so downstream
// service logs can attach it.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDCtxKey{}, correlationID)
}

// CorrelationID returns the correlation ID stored on the context, or "".
func CorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(correlationIDCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// ExtractCorrelationID returns a correlation_id attribute from the context.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationID(ctx))
}

// CorrelationIDFromMsg returns a correlation_id attribute from a watermill
// message's metadata.
func CorrelationIDFromMsg(msg *message.Message) slog.Attr {
	return slog.String("correlation_id", middleware.MessageCorrelationID(msg))
}
