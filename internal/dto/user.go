package dto

import "time"

// RegisterRequest arrives as multipart/form-data together with the avatar
// (required) and coverImage (optional) file parts.
type RegisterRequest struct {
	FullName string `form:"fullName" validate:"required,min=1,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Username string `form:"username" validate:"required,min=2,max=50"`
	Password string `form:"password" validate:"required,min=8,max=100"`
}

// LoginRequest accepts either identifier; at least one must be present.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the body fallback; the refreshToken cookie is
// preferred when present.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=100"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

// UserResponse is the sanitized user view. Password and refresh token are
// never serialized.
type UserResponse struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage,omitempty"`
	WatchHistory []uint    `json:"watchHistory"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ChannelProfileResponse is the aggregated public channel view.
type ChannelProfileResponse struct {
	ID                        uint   `json:"id"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Email                     string `json:"email"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage,omitempty"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// WatchHistoryOwner is the embedded uploader view inside a history entry.
type WatchHistoryOwner struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

type WatchHistoryEntry struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	Thumbnail string            `json:"thumbnail"`
	VideoFile string            `json:"videoFile"`
	Duration  float64           `json:"duration"`
	Views     int64             `json:"views"`
	Owner     WatchHistoryOwner `json:"owner"`
}
