package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/1010nishant/BookMyTrip/internal/interface/http"
	"github.com/1010nishant/BookMyTrip/internal/interface/middleware"
)

// AuthModule mounts signup, login and the password flows under /users.
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Verifier middleware.TokenVerifier
	Limit    Limiter
}

func NewAuthModule(h *handlers.AuthHandler, v middleware.TokenVerifier, limit Limiter) *AuthModule {
	return &AuthModule{Handler: h, Verifier: v, Limit: limit}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limit := m.Limit.orNoLimit()
	users := rg.Group("/users")

	users.POST("/signup", limit(20, time.Hour, middleware.KeyByIPAndPath()), m.Handler.Signup)
	users.POST("/login", limit(10, time.Minute, middleware.KeyByIP()), m.Handler.Login)
	users.GET("/logout", m.Handler.Logout)
	users.POST("/forgotPassword", limit(5, time.Minute, middleware.KeyByIPAndPath()), m.Handler.ForgotPassword)
	users.PATCH("/resetPassword/:token", limit(30, time.Minute, middleware.KeyByIPAndPath()), m.Handler.ResetPassword)

	users.PATCH("/updateMyPassword",
		middleware.Protect(m.Verifier),
		limit(10, time.Minute, middleware.KeyByUser()),
		m.Handler.UpdateMyPassword,
	)
}
