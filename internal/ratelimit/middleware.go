package ratelimit

import (
	"baysawaar-server/internal/observability"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware throttles requests per client IP under the given scope.
func (s *Service) Middleware(scope string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		clientIP := observability.GetRealClientIP(c)

		ctx = observability.WithFields(ctx,
			observability.Field{Key: "rate_limit_scope", Value: scope},
			observability.Field{Key: "client_ip", Value: clientIP},
		)

		result, err := s.Check(ctx, scope+":"+clientIP, limit)
		if err != nil {
			s.logger.Error(ctx, "rate limit check failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": "INTERNAL_ERROR"})
			c.Abort()
			return
		}
		if result.Limit == 0 {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt.Unix()))

		if !result.Allowed {
			retryAfter := (result.RetryAfterMs + 999) / 1000
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			s.logger.Warn(ctx, "rate limit exceeded",
				observability.Field{Key: "limit", Value: result.Limit},
				observability.Field{Key: "retry_after_ms", Value: result.RetryAfterMs},
			)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests, please try again later",
				"code":        "RATE_LIMIT_EXCEEDED",
				"limit":       result.Limit,
				"retry_after": retryAfter,
				"reset_at":    result.ResetAt.Unix(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
