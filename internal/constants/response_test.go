package constants

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSuccessResponse(t *testing.T) {
	resp := BuildSuccessResponse(http.StatusCreated, map[string]any{"id": 1}, "User registered Successfully")

	assert.Equal(t, http.StatusCreated, resp[ResponseFieldStatusCode])
	assert.Equal(t, "User registered Successfully", resp[ResponseFieldMessage])
	assert.Equal(t, true, resp[ResponseFieldSuccess])
	assert.NotNil(t, resp[ResponseFieldData])
	assert.NotContains(t, resp, ResponseFieldErrors)
}

func TestBuildErrorResponse(t *testing.T) {
	resp := BuildErrorResponse(http.StatusUnauthorized, "unauthorized request", nil)

	assert.Equal(t, http.StatusUnauthorized, resp[ResponseFieldStatusCode])
	assert.Equal(t, "unauthorized request", resp[ResponseFieldMessage])
	assert.Equal(t, false, resp[ResponseFieldSuccess])
	assert.Nil(t, resp[ResponseFieldData])
	// errors is always present and never null
	assert.Equal(t, []string{}, resp[ResponseFieldErrors])

	withDetails := BuildErrorResponse(http.StatusBadRequest, "Invalid request", []string{"email is required"})
	assert.Equal(t, []string{"email is required"}, withDetails[ResponseFieldErrors])
}
