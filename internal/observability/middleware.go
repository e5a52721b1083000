package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetRealClientIP returns the visitor address forwarded by the edge proxy,
// falling back to gin's trusted-proxy resolution.
func GetRealClientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// GetRealUserAgent extracts the user agent.
func GetRealUserAgent(c *gin.Context) string {
	return c.Request.UserAgent()
}

// Middleware adds request-scoped observability fields, recovers panics and
// records request latency.
func Middleware(l *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%s", uuid.New().String())
			c.Request.Header.Set("X-Request-ID", requestID)
		}
		c.Writer.Header().Set("X-Request-ID", requestID)

		ctx = WithFields(ctx,
			Field{"request_id", requestID},
			Field{"path", c.Request.URL.Path},
			Field{"method", c.Request.Method},
			Field{"client_ip", GetRealClientIP(c)},
			Field{"user_agent", GetRealUserAgent(c)},
		)
		if c.Request.ContentLength > 0 {
			ctx = WithFields(ctx, Field{"content_length", c.Request.ContentLength})
		}
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				l.Error(c.Request.Context(), "recovered from panic", fmt.Errorf("reason: %+v", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "An internal error occurred",
					"code":  "INTERNAL_ERROR",
				})
			}

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			latency := time.Since(start)
			status := c.Writer.Status()
			ObserveHTTPRequest(c.Request.Method, route, status, latency)

			if c.Request.URL.Path == "/health" || c.Request.URL.Path == "/metrics" {
				return
			}
			l.Metrics(c.Request.Context(),
				MetricField{"method", c.Request.Method},
				MetricField{"route", route},
				MetricField{"status", strconv.Itoa(status)},
				MetricField{"latency_ms", latency.Milliseconds()},
			)
		}()
		c.Next()
	}
}

// DetachedContext keeps the request's observability fields on a fresh
// background context, for work that must outlive the request.
func DetachedContext(ctx context.Context) context.Context {
	return WithFields(context.Background(), getObservabilityFields(ctx)...)
}
