package service

import (
	"fmt"
	"time"

	"github.com/cliptube/backend/config"
	"github.com/cliptube/backend/internal/errors"
	"github.com/cliptube/backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and verifies the two JWT kinds. Access tokens carry
// identity claims for stateless request auth; refresh tokens carry only the
// user ID and are additionally checked against the persisted session slot.
type TokenService struct {
	cfg config.TokenConfig
}

func NewTokenService(cfg config.TokenConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// AccessClaims is the decoded access-token payload.
type AccessClaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the user reference. Everything else is looked
// up fresh at refresh time.
type RefreshClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a short-lived token embedding the user's identity
func (s *TokenService) GenerateAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// GenerateRefreshToken signs a long-lived token referencing the user.
// The jti claim makes every issued token distinct even within the same
// second, so rotating a token always changes the stored slot value.
func (s *TokenService) GenerateRefreshToken(user *model.User) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return signed, nil
}

// VerifyAccessToken validates signature and expiry, returning the claims
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.verify(tokenString, s.cfg.AccessSecret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken validates signature and expiry against the refresh
// secret. Callers must still compare the token against the stored slot.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.verify(tokenString, s.cfg.RefreshSecret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) verify(tokenString, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return errors.WrapError(errors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return errors.ErrInvalidToken
	}
	return nil
}
