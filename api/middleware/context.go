package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxCartSessionID contextKey = "cart_session_id"

// CartSessionFromContext returns the cart session id bound to the request,
// or uuid.Nil when no session middleware ran.
func CartSessionFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxCartSessionID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// WithCartSession injects the cart session id into the context.
func WithCartSession(ctx context.Context, sessionID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartSessionID, sessionID)
}
