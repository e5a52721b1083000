// Package captcha challenges anonymous public submissions.
package captcha

import (
	"baysawaar-server/internal/observability"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderName carries the widget token. A header keeps the check independent
// of JSON and multipart bodies.
const HeaderName = "X-Captcha-Token"

//go:generate mockgen -source=middleware.go -destination=mocks_test.go -package=captcha

// Verifier checks a captcha token with the provider.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
	IsEnabled() bool
}

// Middleware rejects requests without a valid token. It lets everything
// through when verifier is nil or disabled.
func Middleware(verifier Verifier, logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil || !verifier.IsEnabled() {
			c.Next()
			return
		}

		clientIP := observability.GetRealClientIP(c)
		ctx := observability.WithFields(c.Request.Context(),
			observability.Field{Key: "client_ip", Value: clientIP},
			observability.Field{Key: "path", Value: c.FullPath()},
		)

		token := c.GetHeader(HeaderName)
		if token == "" {
			logger.Info(ctx, "captcha token missing")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Captcha verification required", "code": "CAPTCHA_REQUIRED"})
			c.Abort()
			return
		}

		if err := verifier.Verify(ctx, token, clientIP); err != nil {
			logger.Warn(ctx, "captcha verification failed", observability.Field{Key: "reason", Value: err.Error()})
			c.JSON(http.StatusForbidden, gin.H{"error": "Captcha verification failed", "code": "CAPTCHA_FAILED"})
			c.Abort()
			return
		}

		c.Next()
	}
}
