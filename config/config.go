package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Token    TokenConfig
	Storage  StorageConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        string
	Timeout     time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// TokenConfig holds the two independent signing secrets and expirations.
// Access tokens are short-lived and never persisted; refresh tokens are
// long-lived and stored per user as the single session slot.
type TokenConfig struct {
	AccessSecret  string
	AccessExpiry  time.Duration
	RefreshSecret string
	RefreshExpiry time.Duration
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	Database     int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig configures the S3-compatible asset store used for
// avatar and cover image uploads.
type StorageConfig struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	PublicURL    string
}

type CacheConfig struct {
	ChannelProfileTTL time.Duration
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine, variables may come from the environment
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "cliptube-backend"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8000"),
			Timeout:     getEnvAsDuration("APP_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "cliptube"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Token: TokenConfig{
			AccessSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
			RefreshSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		},
		Storage: StorageConfig{
			Region:       getEnv("S3_REGION", "us-east-1"),
			Bucket:       getEnv("S3_BUCKET", "cliptube-assets"),
			AccessKey:    getEnv("S3_ACCESS_KEY", ""),
			SecretKey:    getEnv("S3_SECRET_KEY", ""),
			BaseEndpoint: getEnv("S3_BASE_ENDPOINT", ""),
			PublicURL:    getEnv("S3_PUBLIC_URL", ""),
		},
		Cache: CacheConfig{
			ChannelProfileTTL: getEnvAsDuration("CHANNEL_PROFILE_CACHE_TTL", 60*time.Second),
		},
	}

	if config.Token.AccessSecret == "" || config.Token.RefreshSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}

	// Token lifetimes control session security, so a value that does not
	// parse is a startup error rather than a silent fallback
	var err error
	if config.Token.AccessExpiry, err = getEnvAsDurationStrict("ACCESS_TOKEN_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if config.Token.RefreshExpiry, err = getEnvAsDurationStrict("REFRESH_TOKEN_EXPIRY", 10*24*time.Hour); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsDurationStrict rejects set-but-unparsable values instead of
// falling back to the default
func getEnvAsDurationStrict(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q for %s: %w", value, key, err)
	}
	return duration, nil
}
