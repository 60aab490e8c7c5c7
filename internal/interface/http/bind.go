package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/interface/reqctx"
	"github.com/1010nishant/BookMyTrip/pkg/validation"
)

// bindJSON decodes the body into dst and reports malformed input as a
// Validation error carrying per-field details.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return apperror.Validation("Request body is empty.")
	}
	details := validation.ToDetails(err)
	return apperror.Validation(validation.Message(details)).WithDetails(details).WithCause(err)
}

// fail hands err to ErrorHandler.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// currentUser is the user resolved by Protect.
func currentUser(c *gin.Context) (*entity.User, bool) {
	u := reqctx.User(c.Request.Context())
	if u == nil {
		fail(c, apperror.ErrMissingToken)
		return nil, false
	}
	return u, true
}

// baseURL is the scheme and host the client used to reach us.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
