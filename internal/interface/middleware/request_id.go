package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/1010nishant/BookMyTrip/internal/interface/reqctx"
	"github.com/1010nishant/BookMyTrip/pkg/response"
)

const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 64

// RequestContext stamps every request with an id and its arrival time, both
// on the gin context and on the request's context.Context. A well-formed
// X-Request-ID from the caller is reused.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		now := time.Now()

		c.Set(response.CtxRequestIDKey, id)
		c.Set(response.CtxRequestTimeKey, now)
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(reqctx.With(c.Request.Context(), &reqctx.Scope{
			RequestID:   id,
			RequestTime: now,
		}))
		c.Next()
	}
}
