package handler

import (
	"net/http"

	"github.com/cliptube/backend/internal/constants"
	"github.com/cliptube/backend/internal/dto"
	apperrors "github.com/cliptube/backend/internal/errors"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/service"
	ctxutil "github.com/cliptube/backend/pkg/context"
	"github.com/cliptube/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *service.UserService
	validMw     *middleware.ValidationMiddleware
}

func NewAuthHandler(userService *service.UserService, validMw *middleware.ValidationMiddleware) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		validMw:     validMw,
	}
}

// Register handles account creation from a multipart form carrying the
// text fields plus the avatar (required) and coverImage (optional) parts.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid register request").
			Err(err).
			Log()
		writeValidationError(c, []string{err.Error()})
		return
	}

	if details := h.validMw.Validate(&req); details != nil {
		writeValidationError(c, details)
		return
	}

	avatarPath, err := saveFormFile(c, constants.FormFieldAvatar)
	if err != nil {
		writeError(c, apperrors.WrapError(apperrors.ErrInternal, err), nil)
		return
	}
	if avatarPath == "" {
		writeError(c, apperrors.ErrAvatarRequired, nil)
		return
	}

	coverImagePath, err := saveFormFile(c, constants.FormFieldCoverImage)
	if err != nil {
		writeError(c, apperrors.WrapError(apperrors.ErrInternal, err), nil)
		return
	}

	logger.InfoWithContext(ctx, "User registration attempt").
		String("username", req.Username).
		Log()

	user, err := h.userService.Register(ctx, &req, avatarPath, coverImagePath)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("username", req.Username).
			Err(err).
			Log()
		writeError(c, err, nil)
		return
	}

	writeSuccess(c, http.StatusCreated, user, "User registered Successfully")
}

// Login authenticates by username or email
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		writeValidationError(c, []string{err.Error()})
		return
	}

	if details := h.validMw.Validate(&req); details != nil {
		writeValidationError(c, details)
		return
	}

	response, err := h.userService.Login(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			String("username", req.Username).
			Err(err).
			Log()
		writeError(c, err, nil)
		return
	}

	setAuthCookies(c, response.AccessToken, response.RefreshToken)

	logger.InfoWithContext(ctx, "User logged in successfully").
		Uint("user_id", response.User.ID).
		Log()

	writeSuccess(c, http.StatusOK, response, "User logged In Successfully")
}

// Logout clears the session slot and both auth cookies
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Logout")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		writeError(c, apperrors.ErrUnauthorized, nil)
		return
	}

	if err := h.userService.Logout(ctx, userID); err != nil {
		logger.ErrorWithContext(ctx, "Failed to logout user").
			Uint("user_id", userID).
			Err(err).
			Log()
		writeError(c, err, nil)
		return
	}

	clearAuthCookies(c)

	writeSuccess(c, http.StatusOK, nil, "User logged Out")
}

// RefreshToken exchanges the current refresh token for a new pair. The
// token comes from the refreshToken cookie or, failing that, the body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "RefreshToken")

	incoming, _ := c.Cookie(constants.CookieRefreshToken)
	if incoming == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}

	response, err := h.userService.Refresh(ctx, incoming)
	if err != nil {
		logger.WarnWithContext(ctx, "Token refresh failed").
			Err(err).
			Log()
		writeError(c, err, nil)
		return
	}

	setAuthCookies(c, response.AccessToken, response.RefreshToken)

	writeSuccess(c, http.StatusOK, response, "Access token refreshed")
}

// ChangePassword verifies the old password before accepting the new one
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ChangePassword")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		writeError(c, apperrors.ErrUnauthorized, nil)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, []string{err.Error()})
		return
	}

	if details := h.validMw.Validate(&req); details != nil {
		writeValidationError(c, details)
		return
	}

	if err := h.userService.ChangePassword(ctx, userID, &req); err != nil {
		logger.WarnWithContext(ctx, "Password change failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		writeError(c, err, nil)
		return
	}

	writeSuccess(c, http.StatusOK, nil, "Password changed successfully")
}
