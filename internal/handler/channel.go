package handler

import (
	"net/http"
	"strconv"

	apperrors "github.com/cliptube/backend/internal/errors"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/service"
	ctxutil "github.com/cliptube/backend/pkg/context"
	"github.com/cliptube/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	channelService *service.ChannelService
	userService    *service.UserService
}

func NewChannelHandler(channelService *service.ChannelService, userService *service.UserService) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
		userService:    userService,
	}
}

// GetChannelProfile serves the public channel view. The viewer may be
// anonymous; when authenticated, isSubscribed reflects their subscription.
func (h *ChannelHandler) GetChannelProfile(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetChannelProfile")

	username := c.Param("username")
	if username == "" {
		writeError(c, apperrors.ErrInvalidInput, []string{"username is missing"})
		return
	}

	viewerID, _ := middleware.AuthenticatedUserID(c)

	profile, err := h.channelService.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		logger.WarnWithContext(ctx, "Channel profile fetch failed").
			String("username", username).
			Err(err).
			Log()
		writeError(c, err, nil)
		return
	}

	writeSuccess(c, http.StatusOK, profile, "User channel fetched successfully")
}

// GetWatchHistory returns the viewer's watch history in watch order
func (h *ChannelHandler) GetWatchHistory(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetWatchHistory")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		writeError(c, apperrors.ErrUnauthorized, nil)
		return
	}

	history, err := h.channelService.GetWatchHistory(ctx, userID)
	if err != nil {
		writeError(c, err, nil)
		return
	}

	writeSuccess(c, http.StatusOK, history, "Watch history fetched successfully")
}

// RecordWatch appends a watched video to the viewer's history
func (h *ChannelHandler) RecordWatch(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "RecordWatch")

	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		writeError(c, apperrors.ErrUnauthorized, nil)
		return
	}

	videoID, err := strconv.ParseUint(c.Param("videoId"), 10, 32)
	if err != nil || videoID == 0 {
		writeError(c, apperrors.ErrInvalidInput, []string{"videoId must be a positive integer"})
		return
	}

	if err := h.userService.RecordWatch(ctx, userID, uint(videoID)); err != nil {
		logger.WarnWithContext(ctx, "Failed to record watch").
			Uint("user_id", userID).
			Err(err).
			Log()
		writeError(c, err, nil)
		return
	}

	writeSuccess(c, http.StatusOK, nil, "Watch recorded")
}
