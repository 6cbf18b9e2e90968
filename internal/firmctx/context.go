// Package firmctx carries the active firm and actor through request contexts.
package firmctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// FirmContextKey is the request context key for the active firm ID.
type FirmContextKey struct{}

// ActorContextKey is the request context key for the acting user ID.
type ActorContextKey struct{}

// WithFirmID stores the firm ID in the context.
func WithFirmID(ctx context.Context, firmID int64) context.Context {
	return context.WithValue(ctx, FirmContextKey{}, firmID)
}

// WithActorID stores the acting user ID in the context.
func WithActorID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ActorContextKey{}, userID)
}

// FirmIDFromContext returns the firm ID from context, if set.
func FirmIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	return idFromContext(ctx, FirmContextKey{})
}

// ActorIDFromContext returns the acting user ID from context, if set.
func ActorIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	return idFromContext(ctx, ActorContextKey{})
}

func idFromContext(ctx context.Context, key any) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	switch typed := ctx.Value(key).(type) {
	case int64:
		return snowflake.ID(typed), true
	case snowflake.ID:
		return typed, true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
