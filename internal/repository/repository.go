package repository

import (
	"context"

	"github.com/cliptube/backend/internal/model"
)

// UserRepository is the persistence surface the auth and profile services
// depend on. Write operations are column-targeted so saving a token or a
// new password hash never re-runs validation on unrelated fields.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, id uint, refreshToken *string) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	UpdateAccount(ctx context.Context, id uint, fullName, email string) error
	UpdateAvatar(ctx context.Context, id uint, avatarURL string) error
	UpdateCoverImage(ctx context.Context, id uint, coverImageURL string) error
	AppendWatchHistory(ctx context.Context, id uint, videoID uint) error
}

// ChannelRepository serves the read-only aggregation views.
type ChannelRepository interface {
	CountSubscribers(ctx context.Context, channelID uint) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID uint) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error)
	GetVideosByIDs(ctx context.Context, ids []uint) ([]model.Video, error)
}
