package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds. Services return (wrapped) sentinels or *AppError;
// the HTTP layer translates them in exactly one place.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

// AppError carries a stable machine code alongside the human message.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{Code: "UNAUTHORIZED", Message: message, Status: http.StatusUnauthorized, Err: ErrUnauthorized}
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return &AppError{Code: "FORBIDDEN", Message: message, Status: http.StatusForbidden, Err: ErrForbidden}
}

func NotFound(message string) *AppError {
	if message == "" {
		message = "not found"
	}
	return &AppError{Code: "NOT_FOUND", Message: message, Status: http.StatusNotFound, Err: ErrNotFound}
}

func Validation(message string) *AppError {
	return &AppError{Code: "VALIDATION", Message: message, Status: http.StatusBadRequest, Err: ErrValidation}
}

func Conflict(message string) *AppError {
	return &AppError{Code: "CONFLICT", Message: message, Status: http.StatusConflict, Err: ErrConflict}
}

func Internal(err error) *AppError {
	return &AppError{Code: "INTERNAL", Message: "internal server error", Status: http.StatusInternalServerError, Err: err}
}

// Status resolves the HTTP status for any error.
func Status(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
