package apierrors

import (
	"net/http"

	"baysawaar-server/internal/validation"
)

// APIError is an error that is safe to return to API clients.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []validation.FieldError
	Err        error // internal cause, never sent to clients
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Error codes returned in the "code" field of error responses
const (
	CodeInvalidInput         = "INVALID_INPUT"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeNotFound             = "NOT_FOUND"
	CodeEnrollmentNotFound   = "ENROLLMENT_NOT_FOUND"
	CodeContactNotFound      = "CONTACT_NOT_FOUND"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeEnrollmentExists     = "ENROLLMENT_EXISTS"
	CodeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
	CodeEmailExists          = "EMAIL_EXISTS"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeTokenExpired         = "TOKEN_EXPIRED"
	CodeForbidden            = "FORBIDDEN"
	CodeStorageError         = "STORAGE_ERROR"
	CodeStorageTimeout       = "STORAGE_TIMEOUT"
	CodeRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
	CodeInternalError        = "INTERNAL_ERROR"
)

func NotFound(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: code, Message: message}
}

func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// Validation reports field-attributed input errors
func Validation(fields []validation.FieldError) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidationFailed,
		Message:    "Validation failed",
		Fields:     fields,
	}
}

func Unauthorized(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func Forbidden(message string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

func Conflict(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Code: code, Message: message}
}

func BadGateway(code, message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusBadGateway, Code: code, Message: message, Err: err}
}

func GatewayTimeout(code, message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusGatewayTimeout, Code: code, Message: message, Err: err}
}

// InternalError hides err behind a generic message
func InternalError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
		Err:        err,
	}
}
