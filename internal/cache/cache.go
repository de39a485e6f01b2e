package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/aksara/internal/model"
)

// KeyPrefix namespaces every key written by aksara
const KeyPrefix = "aksara:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from its parts (oracle, model, text, ...)
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return KeyPrefix + hex.EncodeToString(hash[:])
}

// New builds the cache described by the configuration: redis when an
// address is set, otherwise memory backed by disk. It returns nil when
// caching is disabled.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	if cfg.RedisAddr != "" {
		rc, err := NewRedisCache(cfg.RedisAddr, cfg.RedisDB, cfg.DiskTTL)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return NewLayeredCache(NewMemoryCache(cfg.MemoryTTL, 10*time.Minute), rc), nil
	}

	if cfg.Directory == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute), nil
	}

	return NewMemoryDiskCache(cfg.MemoryTTL, cfg.Directory, cfg.DiskTTL), nil
}
