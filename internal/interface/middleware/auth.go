package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/1010nishant/BookMyTrip/internal/application"
	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/interface/reqctx"
)

// TokenVerifier is satisfied by application.AuthService.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*entity.User, error)
}

// Protect resolves the request's access token to a user and attaches it to
// the request scope. Failures are handed to ErrorHandler.
func Protect(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := v.Verify(c.Request.Context(), BearerToken(c))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(reqctx.WithUser(c.Request.Context(), u))
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// RestrictTo must run after Protect. Mounting it on an unprotected route is a
// wiring bug and panics.
func RestrictTo(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := reqctx.User(c.Request.Context())
		if u == nil {
			panic("middleware: RestrictTo used without Protect")
		}
		if err := application.Authorize(u, roles...); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}
