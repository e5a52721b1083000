package apierrors

import (
	"net/http"

	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/validation"

	"github.com/gin-gonic/gin"
)

var logger = observability.NewLogger()

// ErrorResponse is the JSON structure returned to API clients for errors
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code,omitempty"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

// RespondWithError maps err and writes a sanitized JSON error response.
// Processors have already logged the detailed failure; this only logs the
// response for correlation, plus the cause of 5xx responses.
//
//	if err != nil {
//	    apierrors.RespondWithError(c, err)
//	    return
//	}
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	ctx := c.Request.Context()

	apiErr := MapError(err)

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "status_code", Value: apiErr.StatusCode},
		observability.Field{Key: "error_code", Value: apiErr.Code},
		observability.Field{Key: "error_message", Value: apiErr.Message},
	)
	if apiErr.StatusCode >= http.StatusInternalServerError && apiErr.Err != nil {
		logger.Error(ctx, "API error response", apiErr.Err)
	} else {
		logger.Info(ctx, "API error response")
	}

	c.JSON(apiErr.StatusCode, ErrorResponse{
		Error:  apiErr.Message,
		Code:   apiErr.Code,
		Errors: apiErr.Fields,
	})
}

// AbortWithError is RespondWithError for middlewares.
func AbortWithError(c *gin.Context, err error) {
	RespondWithError(c, err)
	c.Abort()
}
