package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cliptube/backend/internal/constants"
	"github.com/cliptube/backend/internal/dto"
	"github.com/cliptube/backend/pkg/logger"
	"github.com/cliptube/backend/pkg/redis"
)

// ProfileCache is a read-through cache for the channel profile aggregation.
// All methods degrade to a no-op when the client is nil, so the services
// work unchanged without Redis.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl}
}

func channelKey(username string) string {
	return constants.CacheKeyChannel + username
}

// GetChannelProfile returns the cached profile or nil on miss.
// Cache errors are logged and treated as misses.
func (c *ProfileCache) GetChannelProfile(ctx context.Context, username string) *dto.ChannelProfileResponse {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, channelKey(username))
	if err != nil || data == nil {
		return nil
	}

	var profile dto.ChannelProfileResponse
	if err := json.Unmarshal(data, &profile); err != nil {
		logger.WarnWithContext(ctx, "Corrupt channel profile cache entry").
			String("username", username).
			Err(err).
			Log()
		return nil
	}

	return &profile
}

func (c *ProfileCache) SetChannelProfile(ctx context.Context, username string, profile *dto.ChannelProfileResponse) {
	if c == nil || c.client == nil || profile == nil {
		return
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, channelKey(username), data, c.ttl); err != nil {
		logger.WarnWithContext(ctx, "Failed to cache channel profile").
			String("username", username).
			Err(err).
			Log()
	}
}

// Invalidate drops the cached profile after a profile-affecting write
func (c *ProfileCache) Invalidate(ctx context.Context, username string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Delete(ctx, channelKey(username)); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate channel profile cache").
			String("username", username).
			Err(err).
			Log()
	}
}
