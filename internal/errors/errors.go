package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so a wrapped error still compares equal
// to its predefined sentinel
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// User errors
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user does not exist")
	ErrUserExists   = NewDomainError("USER_EXISTS", "user with email or username already exists")

	// Authentication errors
	ErrUnauthorized         = NewDomainError("UNAUTHORIZED", "unauthorized request")
	ErrInvalidCredentials   = NewDomainError("INVALID_CREDENTIALS", "invalid user credentials")
	ErrInvalidToken         = NewDomainError("INVALID_TOKEN", "invalid or expired token")
	ErrInvalidRefreshToken  = NewDomainError("INVALID_REFRESH_TOKEN", "Invalid refresh token")
	ErrRefreshTokenConsumed = NewDomainError("REFRESH_TOKEN_CONSUMED", "Refresh token is expired or used")
	ErrIncorrectPassword    = NewDomainError("INCORRECT_PASSWORD", "Invalid old password")

	// Validation errors
	ErrInvalidInput    = NewDomainError("INVALID_INPUT", "All fields are required")
	ErrAvatarRequired  = NewDomainError("AVATAR_REQUIRED", "Avatar file is required")
	ErrChannelNotFound = NewDomainError("CHANNEL_NOT_FOUND", "channel does not exist")

	// Dependency errors
	ErrUploadFailed = NewDomainError("UPLOAD_FAILED", "Error while uploading file")

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "AVATAR_REQUIRED", "UPLOAD_FAILED":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN",
		"INVALID_REFRESH_TOKEN", "REFRESH_TOKEN_CONSUMED", "INCORRECT_PASSWORD":
		return http.StatusUnauthorized

	// 404 Not Found
	case "USER_NOT_FOUND", "CHANNEL_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "USER_EXISTS":
		return http.StatusConflict

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
