package apierrors

import (
	"errors"
	"net/http"

	"baysawaar-server/internal/attachments"
	authProcessor "baysawaar-server/internal/auth/processor"
	contactProcessor "baysawaar-server/internal/contact/processor"
	enrollmentProcessor "baysawaar-server/internal/enrollment/processor"
	"baysawaar-server/internal/validation"
)

// MapError converts domain/processor errors to APIErrors.
// Unknown errors become a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if verrs, ok := validation.AsErrors(err); ok {
		return Validation(verrs.Fields)
	}

	var storageErr *attachments.StorageError
	if errors.As(err, &storageErr) {
		if storageErr.Timeout {
			return GatewayTimeout(CodeStorageTimeout, "Uploading the attached files timed out. Please retry the upload.", err)
		}
		return BadGateway(CodeStorageError, "The attached files could not be stored. Please retry the upload.", err)
	}

	switch {
	case errors.Is(err, enrollmentProcessor.ErrEnrollmentNotFound):
		return NotFound(CodeEnrollmentNotFound, "Enrollment not found")

	case errors.Is(err, enrollmentProcessor.ErrEnrollmentExists):
		return Conflict(CodeEnrollmentExists,
			"A pending application already exists for this email and type. Use a different email or check the status of your existing application.")

	case errors.Is(err, enrollmentProcessor.ErrSubmissionInProgress):
		return Conflict(CodeSubmissionInProgress, "A submission for this email and type is already being processed")

	case errors.Is(err, enrollmentProcessor.ErrUnauthenticated):
		return Unauthorized("Authentication required")

	case errors.Is(err, enrollmentProcessor.ErrForbidden):
		return Forbidden("You do not have access to this enrollment")

	case errors.Is(err, contactProcessor.ErrContactNotFound):
		return NotFound(CodeContactNotFound, "Contact message not found")

	case errors.Is(err, authProcessor.ErrEmailAlreadyExists):
		return Conflict(CodeEmailExists, "Email already exists")

	case errors.Is(err, authProcessor.ErrInvalidCredentials):
		return Unauthorized("Invalid email or password")

	case errors.Is(err, authProcessor.ErrUserNotFound):
		return NotFound(CodeUserNotFound, "User not found")

	case errors.Is(err, authProcessor.ErrExpiredToken):
		return &APIError{StatusCode: http.StatusUnauthorized, Code: CodeTokenExpired, Message: "Session expired, please log in again"}

	case errors.Is(err, authProcessor.ErrInvalidJWTToken), errors.Is(err, authProcessor.ErrParseJWTToken):
		return Unauthorized("Authorization token is missing or invalid")

	default:
		return InternalError(err)
	}
}
