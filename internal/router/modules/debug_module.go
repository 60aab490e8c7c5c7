package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1010nishant/BookMyTrip/internal/interface/middleware"
)

// DebugModule exposes /metrics (prometheus) and /debug/vars (expvar),
// rate-limited per IP.
type DebugModule struct {
	Limit Limiter
}

func NewDebugModule(limit Limiter) *DebugModule { return &DebugModule{Limit: limit} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := m.Limit.orNoLimit()(120, time.Minute, middleware.KeyByIP())
	rg.GET("/metrics", rl, gin.WrapH(promhttp.Handler()))
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
