package cache

import (
	"time"

	gocache "github.com/pmylund/go-cache"
	"github.com/vtex/netweaver-setup/reflext"
)

const (
	defaultMemoryExpiration = 10 * time.Minute
	memoryCleanupInterval   = 5 * time.Minute

	// NoExpiration keeps an entry for as long as the cache lives.
	NoExpiration = gocache.NoExpiration
)

// NewMemory returns a Cache kept in process memory. Values are stored as-is,
// so result must point to a value of the exact type that was set.
func NewMemory() Cache {
	return NewMemoryWith(defaultMemoryExpiration, memoryCleanupInterval)
}

// NewMemoryWith is NewMemory with explicit expiration and cleanup intervals.
// A cleanupInterval below one starts no background janitor, so expired entries
// are only dropped when read.
func NewMemoryWith(defaultExpiration, cleanupInterval time.Duration) Cache {
	return &memCache{gocache.New(defaultExpiration, cleanupInterval)}
}

type memCache struct {
	cache *gocache.Cache
}

func (c *memCache) GetOrSet(key string, result interface{}, duration time.Duration, fetch func() (interface{}, error)) error {
	if cached, err := c.Get(key, result); err != nil {
		return err
	} else if cached {
		return nil
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	if err := c.Set(key, value, duration); err != nil {
		return err
	}
	return reflext.SetPointer(result, value)
}

func (c *memCache) Get(key string, result interface{}) (bool, error) {
	if err := ensureValidCacheKey(key); err != nil {
		return false, err
	}

	value, cached := c.cache.Get(key)
	if !cached {
		return false, nil
	}

	return true, reflext.SetPointer(result, value)
}

func (c *memCache) Set(key string, value interface{}, duration time.Duration) error {
	if err := ensureValidCacheKey(key); err != nil {
		return err
	}

	c.cache.Set(key, value, duration)
	return nil
}
