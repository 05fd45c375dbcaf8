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

type UserHandler struct {
	userService *service.UserService
	validMw     *middleware.ValidationMiddleware
}

func NewUserHandler(userService *service.UserService, validMw *middleware.ValidationMiddleware) *UserHandler {
	return &UserHandler{
		userService: userService,
		validMw:     validMw,
	}
}

// GetCurrentUser returns the authenticated user's sanitized profile
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetCurrentUser")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		writeError(c, apperrors.ErrUnauthorized, nil)
		return
	}

	user, err := h.userService.GetCurrentUser(ctx, userID)
	if err != nil {
		writeError(c, err, nil)
		return
	}

	writeSuccess(c, http.StatusOK, user, "User fetched successfully")
}

// UpdateAccount changes full name and email
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "UpdateAccount")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		writeError(c, apperrors.ErrUnauthorized, nil)
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, []string{err.Error()})
		return
	}

	if details := h.validMw.Validate(&req); details != nil {
		writeValidationError(c, details)
		return
	}

	user, err := h.userService.UpdateAccountDetails(ctx, userID, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Account update failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		writeError(c, err, nil)
		return
	}

	writeSuccess(c, http.StatusOK, user, "Account details updated successfully")
}

// UpdateAvatar replaces the avatar from a multipart upload
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "UpdateAvatar")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		writeError(c, apperrors.ErrUnauthorized, nil)
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

	user, err := h.userService.UpdateAvatar(ctx, userID, avatarPath)
	if err != nil {
		logger.WarnWithContext(ctx, "Avatar update failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		writeError(c, err, nil)
		return
	}

	writeSuccess(c, http.StatusOK, user, "Avatar image updated successfully")
}

// UpdateCoverImage replaces the cover image from a multipart upload
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "UpdateCoverImage")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		writeError(c, apperrors.ErrUnauthorized, nil)
		return
	}

	coverImagePath, err := saveFormFile(c, constants.FormFieldCoverImage)
	if err != nil {
		writeError(c, apperrors.WrapError(apperrors.ErrInternal, err), nil)
		return
	}
	if coverImagePath == "" {
		writeError(c, apperrors.ErrInvalidInput, []string{"coverImage file is required"})
		return
	}

	user, err := h.userService.UpdateCoverImage(ctx, userID, coverImagePath)
	if err != nil {
		logger.WarnWithContext(ctx, "Cover image update failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		writeError(c, err, nil)
		return
	}

	writeSuccess(c, http.StatusOK, user, "Cover image updated successfully")
}
