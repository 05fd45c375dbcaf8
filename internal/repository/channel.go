package repository

import (
	"context"
	"time"

	"github.com/cliptube/backend/internal/model"
	ctxutil "github.com/cliptube/backend/pkg/context"
	"github.com/cliptube/backend/pkg/logger"
	"gorm.io/gorm"
)

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CountSubscribers")

	var count int64
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to count subscribers").
			Uint("channel_id", channelID).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return count, nil
}

func (r *channelRepository) CountSubscriptions(ctx context.Context, subscriberID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CountSubscriptions")

	var count int64
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to count subscriptions").
			Uint("subscriber_id", subscriberID).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return count, nil
}

func (r *channelRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "IsSubscribed")

	var count int64
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to check subscription").
			Uint("subscriber_id", subscriberID).
			Uint("channel_id", channelID).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	return count > 0, nil
}

// GetVideosByIDs fetches the referenced videos with their owners preloaded.
// Order is not guaranteed by the query; callers re-order to match the
// caller-supplied ID list.
func (r *channelRepository) GetVideosByIDs(ctx context.Context, ids []uint) ([]model.Video, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetVideosByIDs")

	if len(ids) == 0 {
		return []model.Video{}, nil
	}

	start := time.Now()
	var videos []model.Video
	result := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id IN ?", ids).
		Find(&videos)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to load videos").
			Int("requested", len(ids)).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "Videos loaded").
		Int("requested", len(ids)).
		Int("found", len(videos)).
		Duration(duration).
		Log()

	return videos, nil
}
