/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package busregistry

import (
	"context"
	"slices"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// LoadFunc fetches the subscriber addresses of one message type from the store.
type LoadFunc func(ctx context.Context, messageType string) ([]string, error)

// SubscriberCache is a read-through map from message type to subscriber addresses.
//
// Reads go straight to the goroutine-safe backing cache. Misses serialize on a
// single population lock and re-check before loading, so each message type is
// loaded at most once over the cache's lifetime. Entries never expire, and
// empty results are cached like any other.
type SubscriberCache struct {
	items *gocache.Cache
	mu    sync.Mutex
}

// NewSubscriberCache creates an empty cache.
func NewSubscriberCache() *SubscriberCache {
	return &SubscriberCache{
		// no expiration and no janitor goroutine
		items: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get returns a copy of the cached addresses for messageType.
func (c *SubscriberCache) Get(messageType string) ([]string, bool) {
	v, found := c.items.Get(messageType)
	if !found {
		return nil, false
	}
	addrs, ok := v.([]string)
	if !ok {
		return nil, false
	}
	return slices.Clone(addrs), true
}

// GetOrLoad returns the cached addresses for messageType, calling load on the
// first miss. A failed load caches nothing. The bool reports whether this call ran load.
func (c *SubscriberCache) GetOrLoad(ctx context.Context, messageType string, load LoadFunc) ([]string, bool, error) {
	if addrs, ok := c.Get(messageType); ok {
		return addrs, false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have filled it while we waited
	if addrs, ok := c.Get(messageType); ok {
		return addrs, false, nil
	}

	addrs, err := load(ctx, messageType)
	if err != nil {
		return nil, true, err
	}
	if addrs == nil {
		addrs = []string{}
	}
	c.items.Set(messageType, slices.Clone(addrs), gocache.NoExpiration)
	return slices.Clone(addrs), true, nil
}

// Len returns the number of cached message types.
func (c *SubscriberCache) Len() int {
	return c.items.ItemCount()
}
