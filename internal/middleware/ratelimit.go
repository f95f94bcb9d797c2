package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

// NewMemoryLimiter builds an in-process limiter from a formatted rate such as "100-M".
func NewMemoryLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// ClientIPKey buckets by client IP.
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// HeaderAndIPKey buckets by the lower-cased value of header plus client IP, so one
// sender cannot exhaust the budget of another sharing an egress address.
func HeaderAndIPKey(header string) KeyFunc {
	return func(c *gin.Context) string {
		return strings.ToLower(strings.TrimSpace(c.GetHeader(header))) + "|" + c.ClientIP()
	}
}

// RateLimit counts each request against key(c) and answers 429 once the bucket is spent.
// The standard X-RateLimit-* headers are set on every response.
func RateLimit(limiterInstance *limiter.Limiter, key KeyFunc) gin.HandlerFunc {
	if key == nil {
		key = ClientIPKey
	}
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		bucket := key(c)

		lc, err := limiterInstance.Get(c.Request.Context(), bucket)
		if err != nil {
			logger.Error("Failed to get rate limit context", slog.String("key", bucket), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))

		if lc.Reached {
			logger.Warn("Rate limit exceeded", slog.String("key", bucket), slog.Int64("limit", lc.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}
