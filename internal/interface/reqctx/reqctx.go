// Package reqctx carries per-request values on the request's context.Context.
package reqctx

import (
	"context"
	"time"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
)

type scopeKey struct{}

// Scope is created once per request by the RequestContext middleware.
// User is nil until Protect has resolved a token.
type Scope struct {
	RequestID   string
	RequestTime time.Time
	User        *entity.User
}

func With(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// From returns the scope stored on ctx, or nil.
func From(ctx context.Context) *Scope {
	s, _ := ctx.Value(scopeKey{}).(*Scope)
	return s
}

// WithUser attaches u to the existing scope, creating one if needed.
func WithUser(ctx context.Context, u *entity.User) context.Context {
	if s := From(ctx); s != nil {
		s.User = u
		return ctx
	}
	return With(ctx, &Scope{RequestTime: time.Now(), User: u})
}

// User returns the authenticated user, or nil.
func User(ctx context.Context) *entity.User {
	if s := From(ctx); s != nil {
		return s.User
	}
	return nil
}

// RequestTime falls back to the zero time when no scope is present.
func RequestTime(ctx context.Context) time.Time {
	if s := From(ctx); s != nil {
		return s.RequestTime
	}
	return time.Time{}
}

func RequestID(ctx context.Context) string {
	if s := From(ctx); s != nil {
		return s.RequestID
	}
	return ""
}
