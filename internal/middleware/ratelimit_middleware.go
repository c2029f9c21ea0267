package middleware

import (
	"net/http"
	"strconv"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/redis"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/transport/httpdto"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SendRateLimitMiddleware limits mutating send/post endpoints per
// client IP. A nil limiter disables the check, which is the case when
// Redis is not configured.
func SendRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.AllowSend(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Rate limiting is advisory. A Redis outage must not take
			// the send path down with it.
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse(whatsapp_errors.ErrRateLimited.Error(), "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
