package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	handlers "github.com/1010nishant/BookMyTrip/internal/interface/http"
	"github.com/1010nishant/BookMyTrip/internal/interface/middleware"
)

// UserModule wires account self-service and admin user management.
// Self-service: GET /users/me, PATCH /users/updateMe, PATCH /users/updateMyPhoto,
// DELETE /users/deleteMe. Admin: GET /users, GET|PATCH|DELETE /users/:id.
type UserModule struct {
	Handler  *handlers.UserHandler
	Verifier middleware.TokenVerifier
	Limit    Limiter
}

func NewUserModule(h *handlers.UserHandler, v middleware.TokenVerifier, limit Limiter) *UserModule {
	return &UserModule{Handler: h, Verifier: v, Limit: limit}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	limit := m.Limit.orNoLimit()
	protect := middleware.Protect(m.Verifier)

	me := rg.Group("/users", protect, limit(120, time.Minute, middleware.KeyByUser()))
	{
		me.GET("/me", m.Handler.GetMe)
		me.PATCH("/updateMe", m.Handler.UpdateMe)
		me.PATCH("/updateMyPhoto", limit(10, time.Hour, middleware.KeyByUser()), m.Handler.UpdateMyPhoto)
		me.DELETE("/deleteMe", m.Handler.DeleteMe)
	}

	admin := rg.Group("/users", protect, middleware.RestrictTo(entity.RoleAdmin))
	{
		admin.GET("", m.Handler.List)
		admin.GET("/:id", m.Handler.Get)
		admin.PATCH("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}
