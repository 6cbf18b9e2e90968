// Package obscontext carries correlation identifiers through request
// contexts so logs, traces and metrics share the same labels.
package obscontext

import (
	"context"
	"strings"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	firmIDKey    contextKey = "firm_id"
	actorKey     contextKey = "actor"
)

type actor struct {
	Type string
	ID   string
}

// WithRequestID stores the request correlation id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request correlation id, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// WithFirmID stores the acting firm identifier for log enrichment.
func WithFirmID(ctx context.Context, firmID string) context.Context {
	firmID = strings.TrimSpace(firmID)
	if firmID == "" {
		return ctx
	}
	return context.WithValue(ctx, firmIDKey, firmID)
}

// FirmIDFromContext returns the acting firm identifier, if any.
func FirmIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(firmIDKey).(string)
	return value
}

// WithActor stores the acting principal.
func WithActor(ctx context.Context, actorType, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actor{
		Type: strings.TrimSpace(actorType),
		ID:   strings.TrimSpace(actorID),
	})
}

// ActorFromContext returns the acting principal type and id.
func ActorFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	value, ok := ctx.Value(actorKey).(actor)
	if !ok {
		return "", ""
	}
	return value.Type, value.ID
}
