// Package cache stores extraction responses in memory and on disk so that
// re-running attribution over unchanged stories does not hit the provider.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-value store with per-entry expiry
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "quotex-v1-"

// Key derives a file-safe cache key from a namespace and the cached input
func Key(namespace, input string) string {
	hash := sha256.Sum256([]byte(namespace + "\x00" + input))
	return keyPrefix + hex.EncodeToString(hash[:])
}
