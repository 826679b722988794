package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
	"github.com/noah-isme/class-scheduling-api/pkg/response"
)

type windowCounter interface {
	Enabled() bool
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit caps requests per caller in a fixed window. Callers are identified by user id when
// authenticated, otherwise by client IP. A disabled counter or a counter error lets the request
// through.
func RateLimit(counter windowCounter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if counter == nil || !counter.Enabled() || limit <= 0 || window <= 0 {
			c.Next()
			return
		}

		caller := c.ClientIP()
		if claims, ok := CurrentUser(c); ok {
			caller = "user:" + claims.UserID
		}
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), caller)

		count, ttl, err := counter.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("rate limit counter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if ttl <= 0 {
			ttl = window
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
			response.Abort(c, appErrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
