package common

import (
	"context"

	"github.com/bobmcallan/satchel/internal/models"
)

// Caller identifies the authenticated principal behind a request.
// It is resolved once by the bearer-token middleware and carried on the
// request context; services treat it as read-only.
type Caller struct {
	UserID        string
	Email         string
	EmailVerified bool
	Role          models.Role
	Level         models.Level
}

type contextKey int

const callerContextKey contextKey = iota

// WithCaller stores a Caller in the request context.
func WithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, c)
}

// CallerFromContext retrieves the Caller from context, or nil if absent.
func CallerFromContext(ctx context.Context) *Caller {
	c, _ := ctx.Value(callerContextKey).(*Caller)
	return c
}
