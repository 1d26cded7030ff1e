package testhelpers

import (
	"context"
	"sync"
)

// FakePhotoCache is an in-memory photo grouping cache.
type FakePhotoCache struct {
	mu      sync.Mutex
	entries map[string][]byte

	Hits   int
	Misses int
}

func NewFakePhotoCache() *FakePhotoCache {
	return &FakePhotoCache{
		entries: make(map[string][]byte),
	}
}

func (c *FakePhotoCache) Get(_ context.Context, listingID string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, ok := c.entries[listingID]
	if !ok {
		c.Misses++
		return nil, false
	}
	c.Hits++
	return payload, true
}

func (c *FakePhotoCache) Set(_ context.Context, listingID string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[listingID] = append([]byte(nil), payload...)
}

func (c *FakePhotoCache) Invalidate(_ context.Context, listingID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, listingID)
}
