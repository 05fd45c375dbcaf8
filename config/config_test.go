package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredSecrets(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Token.AccessExpiry)
	assert.Equal(t, 10*24*time.Hour, cfg.Token.RefreshExpiry)
}

func TestLoadConfig_MissingSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_ValidTokenExpiry(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("ACCESS_TOKEN_EXPIRY", "15m")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "240h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Token.AccessExpiry)
	assert.Equal(t, 240*time.Hour, cfg.Token.RefreshExpiry)
}

func TestLoadConfig_UnparsableTokenExpiryFails(t *testing.T) {
	setRequiredSecrets(t)

	// "10d" is a common mistake; time.ParseDuration has no day unit
	t.Setenv("REFRESH_TOKEN_EXPIRY", "10d")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_TOKEN_EXPIRY")

	t.Setenv("REFRESH_TOKEN_EXPIRY", "")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "1 hour")

	_, err = LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_EXPIRY")
}
