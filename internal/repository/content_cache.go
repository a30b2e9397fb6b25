package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const contentCachePrefix = "content_cache:"

// ContentCache stores generated content in Redis keyed by difficulty and
// topic. Topics are compared case-insensitively.
type ContentCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewContentCache(redisClient *redis.Client, ttl time.Duration) *ContentCache {
	return &ContentCache{redis: redisClient, ttl: ttl}
}

func cacheKey(topic, difficulty string) string {
	return contentCachePrefix + strings.ToLower(difficulty) + ":" + strings.ToLower(strings.TrimSpace(topic))
}

// Get returns ok=false on a miss.
func (c *ContentCache) Get(ctx context.Context, topic, difficulty string) (map[string]interface{}, bool, error) {
	raw, err := c.redis.Get(ctx, cacheKey(topic, difficulty)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached content: %w", err)
	}

	var content map[string]interface{}
	if err := json.Unmarshal(raw, &content); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next Set.
		return nil, false, nil
	}
	return content, true, nil
}

func (c *ContentCache) Set(ctx context.Context, topic, difficulty string, content map[string]interface{}) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode content for cache: %w", err)
	}
	if err := c.redis.Set(ctx, cacheKey(topic, difficulty), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cached content: %w", err)
	}
	return nil
}
