package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/1010nishant/BookMyTrip/internal/interface/middleware"
)

// Limiter builds a rate limit middleware for one route.
type Limiter func(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc

// RedisLimiter limits with rdb. A nil client yields pass-through limiters.
func RedisLimiter(rdb *redis.Client, allow middleware.AllowFunc, logger *logrus.Logger) Limiter {
	return func(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc {
		return middleware.RateLimit(rdb, max, window, key, allow, logger)
	}
}

// NoLimit never limits.
func NoLimit(int, time.Duration, middleware.KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}

func (l Limiter) orNoLimit() Limiter {
	if l == nil {
		return NoLimit
	}
	return l
}
