package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type Limiter interface {
	Allow(ctx context.Context, scope, subject string, limit int, window time.Duration) (bool, error)
}

// RateLimit allows perMinute requests per client IP. A limiter error lets
// the request through.
func RateLimit(l Limiter, scope string, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || perMinute <= 0 {
			c.Next()
			return
		}
		ok, err := l.Allow(c.Request.Context(), scope, c.ClientIP(), perMinute, time.Minute)
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
