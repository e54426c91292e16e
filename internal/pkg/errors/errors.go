package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an AppError for clients
type Code string

const (
	CodeBadRequest  Code = "BAD_REQUEST"
	CodeInternal    Code = "INTERNAL_ERROR"
	CodeUnavailable Code = "STORE_UNAVAILABLE"
)

// AppError is an error with a client-facing message and an HTTP status
type AppError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError attaches the cause. The cause is logged, never sent to clients.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// BadRequest reports a malformed request parameter
func BadRequest(message string) *AppError {
	return &AppError{Code: CodeBadRequest, Message: message, StatusCode: http.StatusBadRequest}
}

// Internal reports a failed store read
func Internal(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, StatusCode: http.StatusInternalServerError}
}

// Unavailable reports a store connection that was never opened
func Unavailable(store string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    store + " unavailable",
		StatusCode: http.StatusServiceUnavailable,
	}
}

// GetAppError returns the outermost AppError in err's chain, or nil
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// GetStatusCode maps err to an HTTP status; errors without an AppError are 500
func GetStatusCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
