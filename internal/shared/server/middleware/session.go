package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/respond"
)

const (
	// SessionHeader identifies the browser session a CV generation belongs to.
	SessionHeader = "X-Session-Id"

	sessionIDKey     = "sessionId"
	maxSessionIDSize = 128
)

// Session requires the session header and stores its value in context.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		id := strings.TrimSpace(c.GetHeader(SessionHeader))
		if id == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing session", nil)
			return
		}
		if len(id) > maxSessionIDSize {
			respond.Error(c, http.StatusBadRequest, "validation_error", "session id too long", nil)
			return
		}

		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// SessionIDFromContext returns the session id stored by Session.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
