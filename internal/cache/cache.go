// SPDX-License-Identifier: MIT

// Package cache provides a small TTL key/value store, used for admin session
// tokens. The in-memory implementation is the default; a Redis-backed one is
// available so sessions survive a restart when Redis is configured.
package cache

import (
	"sync"
	"time"
)

// Cache is a thread-safe string store with per-entry expiration.
type Cache interface {
	// Get retrieves a value. ok is false if the key is absent or expired.
	Get(key string) (value string, ok bool)
	// Set stores a value with the specified TTL.
	Set(key, value string, ttl time.Duration)
	// Delete removes a value.
	Delete(key string)
	// Close releases any resources held by the cache.
	Close() error
}

type entry struct {
	value      string
	expiration time.Time
}

func (e *entry) isExpired(now time.Time) bool {
	return now.After(e.expiration)
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	stop    chan struct{}
	done    chan struct{}
}

// NewMemoryCache creates an in-memory cache. When cleanupInterval is positive,
// a background janitor removes expired entries on that cadence.
func NewMemoryCache(cleanupInterval time.Duration) Cache {
	c := &memoryCache{
		entries: make(map[string]*entry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	} else {
		close(c.done)
	}
	return c
}

func (c *memoryCache) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, e := range c.entries {
				if e.isExpired(now) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *memoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, found := c.entries[key]
	if !found || e.isExpired(time.Now()) {
		return "", false
	}
	return e.value, true
}

func (c *memoryCache) Set(key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{value: value, expiration: time.Now().Add(ttl)}
}

func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *memoryCache) Close() error {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	<-c.done
	return nil
}
