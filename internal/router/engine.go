package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/1010nishant/BookMyTrip/config"
	"github.com/1010nishant/BookMyTrip/internal/interface/middleware"
)

// NewEngine returns a gin engine with the global middleware chain:
// recovery, request scope, client IP, metrics, CORS, optional access log and
// the error renderer, plus the JSON 404 for unmatched routes.
func NewEngine(cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestContext())
	r.Use(middleware.RealIP())
	r.Use(middleware.Metrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	}
	r.Use(cors.New(corsCfg))

	if cfg.IsDevelopment() || cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.Use(middleware.ErrorHandler(logger, cfg.IsDevelopment()))
	r.NoRoute(middleware.NoRoute())
	return r
}
