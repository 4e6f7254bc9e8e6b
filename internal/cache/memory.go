package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process TTL cache backed by go-cache
type Memory[T any] struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache. A ttl of 0 passed to Set uses defaultTTL.
func NewMemory[T any](defaultTTL time.Duration, cleanupInterval time.Duration) *Memory[T] {
	return &Memory[T]{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value; entries of another type count as misses
func (c *Memory[T]) Get(key string) (T, bool) {
	var zero T
	val, found := c.cache.Get(key)
	if !found {
		return zero, false
	}
	typed, ok := val.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Set stores a value with the given TTL
func (c *Memory[T]) Set(key string, value T, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
}

// Delete removes a value
func (c *Memory[T]) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all values
func (c *Memory[T]) Clear() {
	c.cache.Flush()
}

// Len returns the number of stored entries, including expired ones not yet cleaned up
func (c *Memory[T]) Len() int {
	return c.cache.ItemCount()
}
