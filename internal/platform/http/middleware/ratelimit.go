package middleware

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"stayease_backend/internal/platform/http/response"
	"stayease_backend/internal/platform/metrics"
	"stayease_backend/internal/shared/apperr"
	"stayease_backend/internal/shared/ratelimiter"
)

// ErrTooManyRequests is returned when the caller exceeded the window's budget.
var ErrTooManyRequests = apperr.New(apperr.KindTooManyRequests, "too many requests, please try again later")

// RateLimit enforces limiter per client IP under the given resource name.
// Limiter errors let the request through.
func RateLimit(limiter ratelimiter.Limiter, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := limiter.Allow(c.Request.Context(), resource+":"+c.ClientIP())
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rate limit check failed", "resource", resource, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			metrics.RateLimitedTotal.WithLabelValues(resource).Inc()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			response.Error(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
