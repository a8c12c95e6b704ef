// Package middleware provides the cross-cutting Gin middleware of the HTTP server.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayease_backend/internal/platform/logging"
)

// HeaderRequestID is the request correlation header.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// RequestID propagates X-Request-ID or assigns a new one, and stores it in the
// request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
