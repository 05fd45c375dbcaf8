package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is the sole owner of auth state. RefreshToken is the single session
// slot: at most one live refresh token per user, overwritten on login and
// refresh, cleared on logout. A presented refresh token is only honored when
// it matches this column byte for byte in addition to passing verification.
type User struct {
	gorm.Model
	Username     string                    `gorm:"column:username;unique;not null;index"`
	Email        string                    `gorm:"column:email;unique;not null"`
	FullName     string                    `gorm:"column:full_name;not null;index"`
	Avatar       string                    `gorm:"column:avatar;not null"`
	CoverImage   string                    `gorm:"column:cover_image"`
	Password     string                    `gorm:"column:password;not null"`
	RefreshToken *string                   `gorm:"column:refresh_token;default:null"`
	WatchHistory datatypes.JSONSlice[uint] `gorm:"column:watch_history"`
}
