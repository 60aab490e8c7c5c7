package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/1010nishant/BookMyTrip/pkg/helpers"
)

const CtxUserIDKey = "userID"

// BearerToken reads the access token from "Authorization: Bearer <jwt>",
// falling back to the jwt cookie. It returns "" when neither is present.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(helpers.TokenCookie); err == nil {
		return token
	}
	return ""
}
