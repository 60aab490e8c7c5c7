package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	handlers "github.com/1010nishant/BookMyTrip/internal/interface/http"
	"github.com/1010nishant/BookMyTrip/internal/interface/middleware"
)

type TourModule struct {
	Handler  *handlers.TourHandler
	Verifier middleware.TokenVerifier
	Limit    Limiter
}

func NewTourModule(h *handlers.TourHandler, v middleware.TokenVerifier, limit Limiter) *TourModule {
	return &TourModule{Handler: h, Verifier: v, Limit: limit}
}

func (m *TourModule) Register(rg *gin.RouterGroup) {
	limit := m.Limit.orNoLimit()
	protect := middleware.Protect(m.Verifier)
	editors := middleware.RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide)

	tours := rg.Group("/tours")

	tours.GET("/top-5-cheap", m.Handler.TopCheap)
	tours.GET("/tour-stats", m.Handler.Stats)
	tours.GET("/monthly-plan/:year", protect,
		middleware.RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide, entity.RoleGuide),
		m.Handler.MonthlyPlan,
	)
	tours.GET("/search", limit(60, time.Minute, middleware.KeyByIP()), m.Handler.Search)

	tours.GET("", protect, m.Handler.List)
	tours.POST("", protect, editors, m.Handler.Create)

	tours.GET("/:id", m.Handler.Get)
	tours.PATCH("/:id", protect, editors, m.Handler.Update)
	tours.DELETE("/:id", protect, editors, m.Handler.Delete)
}
