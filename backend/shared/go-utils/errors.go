// backend/shared/go-utils/errors.go
package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// For external service failures (e.g., Twilio, SendGrid)
	ErrExternalServiceFailure = errors.New("external_service_failure")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Coded is implemented by errors that carry one of the ErrCode* values.
type Coded interface {
	Code() string
}

// Detailed is implemented by errors that carry per-field details.
type Detailed interface {
	Details() any
}

// StatusForCode maps a shared error code to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeRowVersionConflict:
		return http.StatusConflict
	case ErrCodeValidation, ErrCodeInvalidPayload:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeTokenExpired:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeExternalServiceFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToAppError converts err into an AppError. Errors exposing a code keep
// their message; anything else becomes an opaque internal error.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, ErrRowVersionConflict) {
		return &AppError{
			StatusCode: http.StatusConflict,
			Code:       ErrCodeRowVersionConflict,
			Message:    "The record was modified concurrently; retry the request",
			Err:        err,
		}
	}
	var coded Coded
	if errors.As(err, &coded) {
		code := coded.Code()
		status := StatusForCode(code)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			msg = "An unexpected error occurred"
		}
		out := &AppError{StatusCode: status, Code: code, Message: msg, Err: err}
		var detailed Detailed
		if errors.As(err, &detailed) {
			out.Details = detailed.Details()
		}
		return out
	}
	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrCodeInternal,
		Message:    "An unexpected error occurred",
		Err:        err,
	}
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	appErr := ToAppError(err)
	RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
}
