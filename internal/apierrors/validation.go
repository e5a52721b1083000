package apierrors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"baysawaar-server/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RespondWithValidationError handles gin binding failures. Validator errors
// are reported per field; anything else is a malformed body.
//
//	var req SomeRequest
//	if err := c.ShouldBindJSON(&req); err != nil {
//	    apierrors.RespondWithValidationError(c, err)
//	    return
//	}
func RespondWithValidationError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		RespondWithError(c, Validation(fieldErrors(validationErrs)))
		return
	}

	RespondWithError(c, BadRequest(CodeInvalidInput, "Invalid request format. Please check your JSON syntax."))
}

// BindQueryInt parses an optional integer query parameter into dst. A
// malformed value is answered with a 400 and false is returned.
//
//	if !apierrors.BindQueryInt(c, "page", &params.Page) {
//	    return
//	}
func BindQueryInt(c *gin.Context, name string, dst *int) bool {
	raw := c.Query(name)
	if raw == "" {
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		RespondWithError(c, Validation([]validation.FieldError{{
			Field:   name,
			Message: fmt.Sprintf("%s must be a whole number", name),
		}}))
		return false
	}
	*dst = n
	return true
}

func fieldErrors(validationErrs validator.ValidationErrors) []validation.FieldError {
	fields := make([]validation.FieldError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields = append(fields, validation.FieldError{
			Field:   jsonName(fieldErr.Field()),
			Message: getValidationMessage(fieldErr),
		})
	}
	return fields
}

// jsonName turns a Go field name into the camelCase key clients send.
func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(fieldErr validator.FieldError) string {
	field := jsonName(fieldErr.Field())

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fieldErr.Tag())
	}
}
