package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cliptube/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis connection settings
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Client wraps the go-redis client with the small surface this service
// needs: string get/set with TTL and key deletion.
type Client struct {
	rdb *redis.Client
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	client := &Client{rdb: rdb}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.GetLogger().Error("Failed to connect to Redis",
			zap.String("address", cfg.Addr),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Successfully connected to Redis",
		zap.String("address", cfg.Addr),
		zap.Int("database", cfg.DB),
	)

	return client, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Set stores a value under key with the given TTL
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.GetLogger().Error("Failed to set cache",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Get retrieves a value by key. A cache miss returns (nil, nil).
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logger.GetLogger().Error("Failed to get cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	return data, nil
}

// Delete removes cache entries
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.GetLogger().Error("Failed to delete cache",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete cache: %w", err)
	}

	return nil
}
