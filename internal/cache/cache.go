package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores values of one type with a per-entry TTL
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T, ttl time.Duration)
	Delete(key string)
	Clear()
	Len() int
}

// Key derives a cache key from a URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "veritas:v1:" + hex.EncodeToString(hash[:])
}
