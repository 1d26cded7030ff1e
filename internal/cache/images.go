// Package cache holds resolved photo groupings for listing pages. It
// replaces the ambient module-level cache the site previously leaned on
// with an explicit object that callers receive by injection and that has a
// defined invalidation path.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imobsite/listing-manager/internal/logger"
)

const keyPrefix = "listing:images:"

// ImageCache caches the serialized photo grouping per listing in Redis.
// A nil *ImageCache is a no-op, so callers need no feature-flag checks.
type ImageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// New creates an image cache. Returns nil when client is nil.
func New(client *redis.Client, ttl time.Duration, log logger.Logger) *ImageCache {
	if client == nil {
		return nil
	}
	return &ImageCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

// Get returns the cached grouping payload for a listing, or ok=false on miss.
func (c *ImageCache) Get(ctx context.Context, listingID string) (payload []byte, ok bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, keyPrefix+listingID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Image cache read failed",
				logger.String("listing_id", listingID),
				logger.Error(err),
			)
		}
		return nil, false
	}
	return data, true
}

// Set stores the grouping payload for a listing with the configured TTL.
func (c *ImageCache) Set(ctx context.Context, listingID string, payload []byte) {
	if c == nil || len(payload) == 0 {
		return
	}

	if err := c.client.Set(ctx, keyPrefix+listingID, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Image cache write failed",
			logger.String("listing_id", listingID),
			logger.Error(err),
		)
	}
}

// Invalidate drops the cached grouping for a listing. Called on every
// listing write so stale photo sets never outlive an edit.
func (c *ImageCache) Invalidate(ctx context.Context, listingID string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+listingID).Err(); err != nil {
		c.logger.Warn("Image cache invalidation failed",
			logger.String("listing_id", listingID),
			logger.Error(err),
		)
	}
}
