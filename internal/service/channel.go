package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/cliptube/backend/internal/dto"
	"github.com/cliptube/backend/internal/errors"
	"github.com/cliptube/backend/internal/model"
	"github.com/cliptube/backend/internal/repository"
	ctxutil "github.com/cliptube/backend/pkg/context"
	"github.com/cliptube/backend/pkg/logger"
	"gorm.io/gorm"
)

// ChannelService serves the read-only aggregation views: the public channel
// profile and the viewer's watch history.
type ChannelService struct {
	users    repository.UserRepository
	channels repository.ChannelRepository
	cache    *ProfileCache
}

func NewChannelService(
	users repository.UserRepository,
	channels repository.ChannelRepository,
	cache *ProfileCache,
) *ChannelService {
	return &ChannelService{
		users:    users,
		channels: channels,
		cache:    cache,
	}
}

// GetChannelProfile aggregates subscriber counts around the channel owner.
// Counts are served read-through from cache; the viewer-specific
// isSubscribed flag is always computed fresh so a cached profile never
// leaks another viewer's subscription state. viewerID is zero for
// anonymous requests.
func (s *ChannelService) GetChannelProfile(ctx context.Context, username string, viewerID uint) (*dto.ChannelProfileResponse, error) {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "GetChannelProfile")

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, errors.ErrInvalidInput
	}

	if cached := s.cache.GetChannelProfile(ctx, username); cached != nil {
		cached.IsSubscribed = s.viewerSubscribed(ctx, viewerID, cached.ID)

		logger.DebugWithContext(ctx, "Channel profile served from cache").
			String("username", username).
			Log()
		return cached, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrChannelNotFound
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	start := time.Now()
	subscribers, err := s.channels.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	subscribedTo, err := s.channels.CountSubscriptions(ctx, user.ID)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	profile := &dto.ChannelProfileResponse{
		ID:                        user.ID,
		Username:                  user.Username,
		FullName:                  user.FullName,
		Email:                     user.Email,
		Avatar:                    user.Avatar,
		CoverImage:                user.CoverImage,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
	}

	// Cached without the viewer flag; it is recomputed on every read
	s.cache.SetChannelProfile(ctx, username, profile)

	profile.IsSubscribed = s.viewerSubscribed(ctx, viewerID, user.ID)

	logger.DebugWithContext(ctx, "Channel profile aggregated").
		String("username", username).
		Int64("subscribers", subscribers).
		Duration(time.Since(start)).
		Log()

	return profile, nil
}

func (s *ChannelService) viewerSubscribed(ctx context.Context, viewerID, channelID uint) bool {
	if viewerID == 0 {
		return false
	}

	subscribed, err := s.channels.IsSubscribed(ctx, viewerID, channelID)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to resolve subscription state").
			Uint("channel_id", channelID).
			Err(err).
			Log()
		return false
	}

	return subscribed
}

// GetWatchHistory returns the viewer's history in watch order, oldest first,
// each entry carrying the uploader's public fields. Entries whose video has
// been removed are skipped.
func (s *ChannelService) GetWatchHistory(ctx context.Context, userID uint) ([]dto.WatchHistoryEntry, error) {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "GetWatchHistory")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	if len(user.WatchHistory) == 0 {
		return []dto.WatchHistoryEntry{}, nil
	}

	videos, err := s.channels.GetVideosByIDs(ctx, user.WatchHistory)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	byID := make(map[uint]model.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	// Re-order to the stored sequence; duplicates in history stay duplicated
	entries := make([]dto.WatchHistoryEntry, 0, len(user.WatchHistory))
	for _, id := range user.WatchHistory {
		video, ok := byID[id]
		if !ok {
			continue
		}
		entries = append(entries, dto.WatchHistoryEntry{
			ID:        video.ID,
			Title:     video.Title,
			Thumbnail: video.Thumbnail,
			VideoFile: video.VideoFile,
			Duration:  video.Duration,
			Views:     video.Views,
			Owner: dto.WatchHistoryOwner{
				ID:       video.Owner.ID,
				Username: video.Owner.Username,
				FullName: video.Owner.FullName,
				Avatar:   video.Owner.Avatar,
			},
		})
	}

	logger.DebugWithContext(ctx, "Watch history assembled").
		Uint("user_id", userID).
		Int("entries", len(entries)).
		Log()

	return entries, nil
}
