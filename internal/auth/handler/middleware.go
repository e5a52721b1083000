package handler

import (
	"baysawaar-server/internal/apierrors"
	"baysawaar-server/internal/observability"
	"strings"

	"github.com/gin-gonic/gin"
)

// Keys under which the authenticated identity is stored on the gin context
const (
	ContextUserID    = "User-ID"
	ContextUserEmail = "User-Email"
	ContextUserRole  = "User-Role"
)

// authenticate validates the bearer token, if any. ok is false when no
// token was sent.
func (h *Handler) authenticate(c *gin.Context) (ok bool, err error) {
	ctx := c.Request.Context()
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return false, nil
	}

	claims, err := h.authProcessor.ValidateJWTToken(ctx, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return true, err
	}

	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextUserEmail, claims.Email)
	c.Set(ContextUserRole, claims.Role)
	c.Request = c.Request.WithContext(observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: claims.Subject},
	))
	return true, nil
}

// RequireAuth rejects requests without a valid bearer token.
func (h *Handler) RequireAuth(c *gin.Context) {
	present, err := h.authenticate(c)
	if !present {
		apierrors.AbortWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		return
	}
	if err != nil {
		apierrors.AbortWithError(c, err)
		return
	}
	c.Next()
}

// OptionalAuth attaches the caller's identity when a valid token is sent
// and otherwise lets the request through anonymously.
func (h *Handler) OptionalAuth(c *gin.Context) {
	if present, err := h.authenticate(c); present && err != nil {
		h.logger.Warn(c.Request.Context(), "ignoring invalid token on optional auth route")
	}
	c.Next()
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		apierrors.AbortWithError(c, apierrors.Forbidden("You do not have permission to perform this action"))
	}
}
