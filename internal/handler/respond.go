package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cliptube/backend/internal/constants"
	apperrors "github.com/cliptube/backend/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// writeSuccess writes the standard success envelope
func writeSuccess(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, constants.BuildSuccessResponse(statusCode, data, message))
}

// writeError maps the error to its HTTP status and writes the error envelope
func writeError(c *gin.Context, err error, details []string) {
	status := apperrors.ToHTTPStatus(err)
	c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err), details))
}

// writeValidationError reports struct-tag validation failures
func writeValidationError(c *gin.Context, details []string) {
	c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
		http.StatusBadRequest,
		constants.MsgBadRequest,
		details,
	))
}

// setAuthCookies attaches both tokens as httpOnly cookies for browser
// clients. API clients read them from the response body instead.
func setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.CookieAccessToken, accessToken, 0, "/", "", true, true)
	c.SetCookie(constants.CookieRefreshToken, refreshToken, 0, "/", "", true, true)
}

func clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.CookieAccessToken, "", -1, "/", "", true, true)
	c.SetCookie(constants.CookieRefreshToken, "", -1, "/", "", true, true)
}

// saveFormFile spools a multipart file part to a temp path for the asset
// store to pick up. Returns "" when the part is absent.
func saveFormFile(c *gin.Context, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// Absent part; required-ness is the service's call
		return "", nil
	}

	localPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s%s", uuid.New(), filepath.Ext(fileHeader.Filename)))
	if err := c.SaveUploadedFile(fileHeader, localPath); err != nil {
		return "", fmt.Errorf("failed to save upload %s: %w", field, err)
	}

	return localPath, nil
}
