package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	linkCacheTTL    = 60 * time.Second
	linkCachePrefix = "link:"
)

// LinkCache is a short-TTL Redis cache in front of the redirect lookup.
// Every operation fails open: Redis being down degrades to plain database
// lookups, never to request failures.
type LinkCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewLinkCache wraps the given Redis client.
func NewLinkCache(client *redis.Client, logger *zap.Logger) *LinkCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkCache{client: client, logger: logger}
}

// Get returns the cached link for code, or nil on miss or error.
func (c *LinkCache) Get(ctx context.Context, code string) *model.Link {
	data, err := c.client.Get(ctx, linkCachePrefix+code).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("link cache read failed", zap.Error(err))
		}
		return nil
	}

	var link model.Link
	if err := json.Unmarshal(data, &link); err != nil {
		c.logger.Debug("link cache entry corrupt", zap.String("code", code), zap.Error(err))
		return nil
	}
	return &link
}

// Set stores the link under its short code.
func (c *LinkCache) Set(ctx context.Context, link *model.Link) {
	data, err := json.Marshal(link)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, linkCachePrefix+link.ShortCode, data, linkCacheTTL).Err(); err != nil {
		c.logger.Debug("link cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached entry for code, used after edits and deletes.
func (c *LinkCache) Invalidate(ctx context.Context, code string) {
	if err := c.client.Del(ctx, linkCachePrefix+code).Err(); err != nil {
		c.logger.Debug("link cache invalidation failed", zap.String("code", code), zap.Error(err))
	}
}
