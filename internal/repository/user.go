package repository

import (
	"context"
	"time"

	"github.com/cliptube/backend/internal/model"
	ctxutil "github.com/cliptube/backend/pkg/context"
	"github.com/cliptube/backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("username", user.Username).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("username", user.Username).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "User lookup by ID failed").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByUsername")

	var user model.User
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "User lookup by username failed").
			String("username", username).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// FindByUsernameOrEmail matches either identifier; both arrive already
// case-folded by the service.
func (r *userRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindByUsernameOrEmail")

	var user model.User
	result := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "User lookup by identifier failed").
			String("username", username).
			String("email", email).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// UpdateRefreshToken overwrites the session slot. A nil value clears it.
func (r *userRepository) UpdateRefreshToken(ctx context.Context, id uint, refreshToken *string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateRefreshToken")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("refresh_token", refreshToken)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update refresh token").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to update refresh token").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Refresh token updated").
		Uint("user_id", id).
		Bool("has_token", refreshToken != nil).
		Duration(duration).
		Log()

	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdatePassword")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("password", hashedPassword)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update password").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Password updated").
		Uint("user_id", id).
		Log()

	return nil
}

func (r *userRepository) UpdateAccount(ctx context.Context, id uint, fullName, email string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateAccount")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"full_name": fullName,
			"email":     email,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update account details").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id uint, avatarURL string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateAvatar")
	return r.updateColumn(ctx, id, "avatar", avatarURL)
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, id uint, coverImageURL string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateCoverImage")
	return r.updateColumn(ctx, id, "cover_image", coverImageURL)
}

func (r *userRepository) updateColumn(ctx context.Context, id uint, column, value string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user column").
			Uint("user_id", id).
			String("column", column).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// AppendWatchHistory appends a video reference to the user's history array.
// The row is locked for the read-modify-write so concurrent appends from the
// same user do not drop entries.
func (r *userRepository) AppendWatchHistory(ctx context.Context, id uint, videoID uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "AppendWatchHistory")

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}

		user.WatchHistory = append(user.WatchHistory, videoID)
		return tx.Model(&model.User{}).Where("id = ?", id).
			Update("watch_history", user.WatchHistory).Error
	})
}
