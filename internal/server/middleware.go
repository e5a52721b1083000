package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestTimeout bounds the request context. Multipart bodies get the
// longer budget since they carry file uploads.
func RequestTimeout(jsonTimeout, multipartTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		timeout := jsonTimeout
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			timeout = multipartTimeout
		}
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
