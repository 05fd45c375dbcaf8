package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	base := fmt.Errorf("connection refused")
	err := WrapError(ErrInternal, base)

	assert.Contains(t, err.Error(), ErrInternal.Message)
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, base)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrAvatarRequired, http.StatusBadRequest},
		{ErrUploadFailed, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrInvalidRefreshToken, http.StatusUnauthorized},
		{ErrRefreshTokenConsumed, http.StatusUnauthorized},
		{ErrIncorrectPassword, http.StatusUnauthorized},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrChannelNotFound, http.StatusNotFound},
		{ErrUserExists, http.StatusConflict},
		{ErrInternal, http.StatusInternalServerError},
		{fmt.Errorf("some plain error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, ToHTTPStatus(tt.err), "error: %v", tt.err)
	}
}

func TestToHTTPStatus_WrappedKeepsMapping(t *testing.T) {
	wrapped := WrapError(ErrUserExists, fmt.Errorf("duplicate key"))
	assert.Equal(t, http.StatusConflict, ToHTTPStatus(wrapped))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "", GetErrorMessage(nil))
	assert.Equal(t, "unauthorized request", GetErrorMessage(ErrUnauthorized))
	assert.Equal(t, "Invalid refresh token", GetErrorMessage(ErrInvalidRefreshToken))
	assert.Equal(t, "Refresh token is expired or used", GetErrorMessage(ErrRefreshTokenConsumed))
	assert.Equal(t, "Invalid old password", GetErrorMessage(ErrIncorrectPassword))

	// Wrapped domain errors still surface the client-safe message only
	wrapped := WrapError(ErrInternal, fmt.Errorf("pq: connection reset"))
	assert.Equal(t, ErrInternal.Message, GetErrorMessage(wrapped))

	assert.Equal(t, "plain", GetErrorMessage(fmt.Errorf("plain")))
}
