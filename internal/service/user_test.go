package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cliptube/backend/internal/dto"
	apperrors "github.com/cliptube/backend/internal/errors"
	"github.com/cliptube/backend/internal/model"
	"github.com/cliptube/backend/pkg/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// fakeUserRepo is an in-memory UserRepository for service tests
type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.nextID++
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*model.User, error) {
	for _, user := range r.users {
		if (username != "" && user.Username == username) || (email != "" && user.Email == email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateRefreshToken(_ context.Context, id uint, refreshToken *string) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if refreshToken == nil {
		user.RefreshToken = nil
	} else {
		token := *refreshToken
		user.RefreshToken = &token
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uint, hashedPassword string) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) UpdateAccount(_ context.Context, id uint, fullName, email string) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.FullName = fullName
	user.Email = email
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, id uint, avatarURL string) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Avatar = avatarURL
	return nil
}

func (r *fakeUserRepo) UpdateCoverImage(_ context.Context, id uint, coverImageURL string) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.CoverImage = coverImageURL
	return nil
}

func (r *fakeUserRepo) AppendWatchHistory(_ context.Context, id uint, videoID uint) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.WatchHistory = append(user.WatchHistory, videoID)
	return nil
}

// fakeUploader records uploads and returns deterministic URLs
type fakeUploader struct {
	uploads []string
	err     error
}

func (u *fakeUploader) UploadFile(_ context.Context, localPath string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.uploads = append(u.uploads, localPath)
	return "https://assets.example.com/" + localPath, nil
}

func newTestUserService(repo *fakeUserRepo, uploader *fakeUploader) *UserService {
	tokens := NewTokenService(testTokenConfig())
	breaker := circuit.NewBreaker("test-assets", circuit.DefaultConfig(), nil)
	cache := NewProfileCache(nil, 0)
	return NewUserService(repo, tokens, uploader, breaker, cache)
}

func registerTestUser(t *testing.T, svc *UserService) *dto.UserResponse {
	t.Helper()

	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Chai Aur Code",
		Email:    "Chai@Example.com",
		Username: "ChaiAurCode",
		Password: "correct-horse-battery",
	}, "avatar.png", "")
	require.NoError(t, err)
	return user
}

func TestUserService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	uploader := &fakeUploader{}
	svc := newTestUserService(repo, uploader)

	user := registerTestUser(t, svc)

	// Identifiers are stored case-folded
	assert.Equal(t, "chaiaurcode", user.Username)
	assert.Equal(t, "chai@example.com", user.Email)
	assert.Equal(t, "https://assets.example.com/avatar.png", user.Avatar)
	assert.Empty(t, user.CoverImage)

	// The stored password is a hash of the original, never the plaintext
	stored := repo.users[user.ID]
	assert.NotEqual(t, "correct-horse-battery", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("correct-horse-battery")))

	// No session exists until login
	assert.Nil(t, stored.RefreshToken)
}

func TestUserService_RegisterWithCoverImage(t *testing.T) {
	repo := newFakeUserRepo()
	uploader := &fakeUploader{}
	svc := newTestUserService(repo, uploader)

	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Chai Aur Code",
		Email:    "chai@example.com",
		Username: "chaiaurcode",
		Password: "correct-horse-battery",
	}, "avatar.png", "cover.jpg")
	require.NoError(t, err)

	assert.Equal(t, "https://assets.example.com/cover.jpg", user.CoverImage)
	assert.Len(t, uploader.uploads, 2)
}

func TestUserService_RegisterRejectsDuplicates(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeUploader{})

	registerTestUser(t, svc)

	// Same username, different case
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Someone Else",
		Email:    "other@example.com",
		Username: "CHAIAURCODE",
		Password: "another-password",
	}, "avatar.png", "")
	assert.ErrorIs(t, err, apperrors.ErrUserExists)

	// Same email, different username
	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Someone Else",
		Email:    "chai@example.com",
		Username: "someoneelse",
		Password: "another-password",
	}, "avatar.png", "")
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo(), &fakeUploader{})

	// Whitespace-only field is treated as empty
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "   ",
		Email:    "chai@example.com",
		Username: "chaiaurcode",
		Password: "correct-horse-battery",
	}, "avatar.png", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// Missing avatar
	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Chai Aur Code",
		Email:    "chai@example.com",
		Username: "chaiaurcode",
		Password: "correct-horse-battery",
	}, "", "")
	assert.ErrorIs(t, err, apperrors.ErrAvatarRequired)
}

func spoolTempFile(t *testing.T) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "upload-*.png")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestUserService_RegisterDiscardsSpoolOnRejection(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeUploader{})
	registerTestUser(t, svc)

	avatarPath := spoolTempFile(t)
	coverPath := spoolTempFile(t)

	// Rejected before any upload happens
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Someone Else",
		Email:    "chai@example.com",
		Username: "someoneelse",
		Password: "another-password",
	}, avatarPath, coverPath)
	require.ErrorIs(t, err, apperrors.ErrUserExists)

	_, statErr := os.Stat(avatarPath)
	assert.True(t, os.IsNotExist(statErr), "avatar spool file should be removed")
	_, statErr = os.Stat(coverPath)
	assert.True(t, os.IsNotExist(statErr), "cover spool file should be removed")
}

func TestUserService_UpdateAvatarDiscardsSpoolOnFailure(t *testing.T) {
	repo := newFakeUserRepo()
	uploader := &fakeUploader{}
	svc := newTestUserService(repo, uploader)
	user := registerTestUser(t, svc)

	uploader.err = fmt.Errorf("bucket unreachable")
	avatarPath := spoolTempFile(t)

	_, err := svc.UpdateAvatar(context.Background(), user.ID, avatarPath)
	require.ErrorIs(t, err, apperrors.ErrUploadFailed)

	_, statErr := os.Stat(avatarPath)
	assert.True(t, os.IsNotExist(statErr), "avatar spool file should be removed")
}

func TestUserService_RegisterUploadFailure(t *testing.T) {
	repo := newFakeUserRepo()
	uploader := &fakeUploader{err: fmt.Errorf("bucket unreachable")}
	svc := newTestUserService(repo, uploader)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Chai Aur Code",
		Email:    "chai@example.com",
		Username: "chaiaurcode",
		Password: "correct-horse-battery",
	}, "avatar.png", "")
	assert.ErrorIs(t, err, apperrors.ErrUploadFailed)

	// Nothing was persisted
	assert.Empty(t, repo.users)
}

func TestUserService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeUploader{})
	registerTestUser(t, svc)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "chaiaurcode",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "chaiaurcode", resp.User.Username)

	// The issued refresh token is persisted verbatim as the session slot
	stored := repo.users[resp.User.ID]
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, resp.RefreshToken, *stored.RefreshToken)
}

func TestUserService_LoginByEmail(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo(), &fakeUploader{})
	registerTestUser(t, svc)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "chai@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "chaiaurcode", resp.User.Username)
}

func TestUserService_LoginFailures(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo(), &fakeUploader{})
	registerTestUser(t, svc)

	// Neither identifier supplied
	_, err := svc.Login(context.Background(), &dto.LoginRequest{Password: "whatever"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// Unknown user
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// Wrong password
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Username: "chaiaurcode",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUserService_RefreshRotatesSlot(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeUploader{})
	user := registerTestUser(t, svc)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "chaiaurcode",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The slot now holds the new token
	stored := repo.users[user.ID]
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *stored.RefreshToken)

	// The consumed token is single use
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenConsumed)
}

func TestUserService_RefreshFailures(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo(), &fakeUploader{})
	registerTestUser(t, svc)

	// No token at all
	_, err := svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// Not a JWT
	_, err = svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)

	// Verifiable token for a user that does not exist
	tokens := NewTokenService(testTokenConfig())
	ghost, err := tokens.GenerateRefreshToken(&model.User{Model: gorm.Model{ID: 9999}})
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), ghost)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestUserService_LogoutKillsSession(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeUploader{})
	user := registerTestUser(t, svc)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "chaiaurcode",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID))
	assert.Nil(t, repo.users[user.ID].RefreshToken)

	// A still-valid token no longer matches the cleared slot
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenConsumed)
}

func TestUserService_ChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeUploader{})
	user := registerTestUser(t, svc)

	err := svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "new-password-123",
	})
	assert.ErrorIs(t, err, apperrors.ErrIncorrectPassword)

	err = svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "correct-horse-battery",
		NewPassword: "new-password-123",
	})
	require.NoError(t, err)

	// Old password is dead, new one works
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Username: "chaiaurcode",
		Password: "correct-horse-battery",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Username: "chaiaurcode",
		Password: "new-password-123",
	})
	assert.NoError(t, err)
}

func TestUserService_ChangePasswordKeepsSession(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeUploader{})
	user := registerTestUser(t, svc)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "chaiaurcode",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "correct-horse-battery",
		NewPassword: "new-password-123",
	}))

	// The pre-change refresh token still refreshes
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.NoError(t, err)
}

func TestUserService_UpdateAccountDetails(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo(), &fakeUploader{})
	user := registerTestUser(t, svc)

	updated, err := svc.UpdateAccountDetails(context.Background(), user.ID, &dto.UpdateAccountRequest{
		FullName: "New Name",
		Email:    "New@Example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.FullName)
	assert.Equal(t, "new@example.com", updated.Email)

	_, err = svc.UpdateAccountDetails(context.Background(), user.ID, &dto.UpdateAccountRequest{
		FullName: "",
		Email:    "x@example.com",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUserService_UpdateAvatar(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeUploader{})
	user := registerTestUser(t, svc)

	updated, err := svc.UpdateAvatar(context.Background(), user.ID, "new-avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "https://assets.example.com/new-avatar.png", updated.Avatar)

	_, err = svc.UpdateAvatar(context.Background(), user.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrAvatarRequired)
}

func TestUserService_RecordWatch(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, &fakeUploader{})
	user := registerTestUser(t, svc)

	require.NoError(t, svc.RecordWatch(context.Background(), user.ID, 7))
	require.NoError(t, svc.RecordWatch(context.Background(), user.ID, 3))
	require.NoError(t, svc.RecordWatch(context.Background(), user.ID, 7))

	// Order and duplicates are preserved
	assert.Equal(t, []uint{7, 3, 7}, []uint(repo.users[user.ID].WatchHistory))

	err := svc.RecordWatch(context.Background(), 9999, 1)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
