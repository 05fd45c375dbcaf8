package service

import (
	"context"
	stderrors "errors"
	"os"
	"strings"
	"time"

	"github.com/cliptube/backend/internal/dto"
	"github.com/cliptube/backend/internal/errors"
	"github.com/cliptube/backend/internal/model"
	"github.com/cliptube/backend/internal/repository"
	"github.com/cliptube/backend/pkg/circuit"
	ctxutil "github.com/cliptube/backend/pkg/context"
	"github.com/cliptube/backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost matches the cost the stored hashes were created with.
const bcryptCost = 10

// Uploader moves a local temp file to durable storage and returns its URL
type Uploader interface {
	UploadFile(ctx context.Context, localPath string) (string, error)
}

// UserService implements registration, the session lifecycle and account
// maintenance. Refresh tokens follow a single-slot model: issuing a new
// pair overwrites the slot, logout clears it, and a presented token must
// match the slot exactly to be honored.
type UserService struct {
	users    repository.UserRepository
	tokens   *TokenService
	uploader Uploader
	breaker  *circuit.Breaker
	cache    *ProfileCache
}

func NewUserService(
	users repository.UserRepository,
	tokens *TokenService,
	uploader Uploader,
	breaker *circuit.Breaker,
	cache *ProfileCache,
) *UserService {
	return &UserService{
		users:    users,
		tokens:   tokens,
		uploader: uploader,
		breaker:  breaker,
		cache:    cache,
	}
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Avatar:       user.Avatar,
		CoverImage:   user.CoverImage,
		WatchHistory: user.WatchHistory,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// removeSpoolFile discards a spooled upload that was not (or no longer)
// consumed. The asset store deletes consumed files itself, so a missing
// file here is the normal case on success paths.
func removeSpoolFile(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// upload pushes a temp file through the circuit breaker to the asset store
func (s *UserService) upload(ctx context.Context, localPath string) (string, error) {
	var url string
	err := s.breaker.Execute(func() error {
		var uploadErr error
		url, uploadErr = s.uploader.UploadFile(ctx, localPath)
		return uploadErr
	})
	if err != nil {
		return "", errors.WrapError(errors.ErrUploadFailed, err)
	}
	if url == "" {
		return "", errors.ErrUploadFailed
	}
	return url, nil
}

// Register creates a new account. Username and email are stored lowercased,
// uniqueness is checked across both, and the avatar upload must succeed
// before the row is created.
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest, avatarPath, coverImagePath string) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "Register")

	// Spooled uploads must not outlive the request, whichever way it ends
	defer removeSpoolFile(avatarPath)
	defer removeSpoolFile(coverImagePath)

	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))
	password := req.Password

	if fullName == "" || email == "" || username == "" || password == "" {
		return nil, errors.ErrInvalidInput
	}

	if _, err := s.users.FindByUsernameOrEmail(ctx, username, email); err == nil {
		logger.WarnWithContext(ctx, "Registration rejected, identifier taken").
			String("username", username).
			Log()
		return nil, errors.ErrUserExists
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	if avatarPath == "" {
		return nil, errors.ErrAvatarRequired
	}

	avatarURL, err := s.upload(ctx, avatarPath)
	if err != nil {
		return nil, err
	}

	var coverImageURL string
	if coverImagePath != "" {
		coverImageURL, err = s.upload(ctx, coverImagePath)
		if err != nil {
			return nil, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	user := &model.User{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Avatar:     avatarURL,
		CoverImage: coverImageURL,
		Password:   string(hashed),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	// Read back to confirm the row landed and to serve canonical timestamps
	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		Uint("user_id", created.ID).
		String("username", created.Username).
		Log()

	resp := toUserResponse(created)
	return &resp, nil
}

// Login authenticates by username or email and issues a fresh token pair,
// overwriting the session slot.
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "Login")

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" && email == "" {
		return nil, errors.ErrInvalidInput
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnWithContext(ctx, "Login rejected, bad password").
			Uint("user_id", user.ID).
			Log()
		return nil, errors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		String("username", user.Username).
		Log()

	return &dto.LoginResponse{
		User:         toUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// issueTokenPair signs both tokens and persists the refresh token verbatim
// as the new session slot.
func (s *UserService) issueTokenPair(ctx context.Context, user *model.User) (string, string, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", "", errors.WrapError(errors.ErrInternal, err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return "", "", errors.WrapError(errors.ErrInternal, err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return "", "", errors.WrapError(errors.ErrInternal, err)
	}

	return accessToken, refreshToken, nil
}

// Logout clears the session slot unconditionally; after it returns no
// previously issued refresh token is usable.
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "Logout")

	if err := s.users.UpdateRefreshToken(ctx, userID, nil); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return errors.WrapError(errors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out").
		Uint("user_id", userID).
		Log()

	return nil
}

// Refresh exchanges a valid, current refresh token for a new pair. The
// presented token must verify against the refresh secret AND equal the
// stored slot byte for byte; rotation overwrites the slot so the old
// token is dead once this returns.
func (s *UserService) Refresh(ctx context.Context, incomingToken string) (*dto.TokenPairResponse, error) {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "Refresh")

	if incomingToken == "" {
		return nil, errors.ErrUnauthorized
	}

	claims, err := s.tokens.VerifyRefreshToken(incomingToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh rejected, token failed verification").
			Err(err).
			Log()
		return nil, errors.ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.ErrInvalidRefreshToken
	}

	if user.RefreshToken == nil || *user.RefreshToken != incomingToken {
		logger.WarnWithContext(ctx, "Refresh rejected, token does not match session slot").
			Uint("user_id", user.ID).
			Log()
		return nil, errors.ErrRefreshTokenConsumed
	}

	accessToken, refreshToken, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Token pair rotated").
		Uint("user_id", user.ID).
		Log()

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ChangePassword verifies the old password before storing the new hash.
// The session slot is left untouched; existing sessions stay valid.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "ChangePassword")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return errors.WrapError(errors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return errors.ErrIncorrectPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return errors.WrapError(errors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return errors.WrapError(errors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password changed").
		Uint("user_id", userID).
		Log()

	return nil
}

// GetCurrentUser returns the sanitized view of the authenticated user
func (s *UserService) GetCurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "GetCurrentUser")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// UpdateAccountDetails changes full name and email
func (s *UserService) UpdateAccountDetails(ctx context.Context, userID uint, req *dto.UpdateAccountRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "UpdateAccountDetails")

	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		return nil, errors.ErrInvalidInput
	}

	if err := s.users.UpdateAccount(ctx, userID, fullName, email); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	s.cache.Invalidate(ctx, user.Username)

	resp := toUserResponse(user)
	return &resp, nil
}

// UpdateAvatar uploads a replacement avatar and stores its URL
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, avatarPath string) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "UpdateAvatar")

	if avatarPath == "" {
		return nil, errors.ErrAvatarRequired
	}

	return s.updateImage(ctx, userID, avatarPath, s.users.UpdateAvatar)
}

// UpdateCoverImage uploads a replacement cover image and stores its URL
func (s *UserService) UpdateCoverImage(ctx context.Context, userID uint, coverImagePath string) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "UpdateCoverImage")

	if coverImagePath == "" {
		return nil, errors.ErrInvalidInput
	}

	return s.updateImage(ctx, userID, coverImagePath, s.users.UpdateCoverImage)
}

func (s *UserService) updateImage(
	ctx context.Context,
	userID uint,
	localPath string,
	persist func(ctx context.Context, id uint, url string) error,
) (*dto.UserResponse, error) {
	defer removeSpoolFile(localPath)

	url, err := s.upload(ctx, localPath)
	if err != nil {
		return nil, err
	}

	if err := persist(ctx, userID, url); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	s.cache.Invalidate(ctx, user.Username)

	resp := toUserResponse(user)
	return &resp, nil
}

// RecordWatch appends a video to the user's watch history
func (s *UserService) RecordWatch(ctx context.Context, userID, videoID uint) error {
	ctx = ctxutil.NewContextWithRequest(ctx, "service", "RecordWatch")

	start := time.Now()
	if err := s.users.AppendWatchHistory(ctx, userID, videoID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return errors.WrapError(errors.ErrInternal, err)
	}

	logger.DebugWithContext(ctx, "Watch recorded").
		Uint("user_id", userID).
		Uint("video_id", videoID).
		Duration(time.Since(start)).
		Log()

	return nil
}
