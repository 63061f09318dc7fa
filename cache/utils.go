package cache

import (
	"github.com/pkg/errors"
)

var ErrEmptyKey = errors.New("cache key must not be empty")

func ensureValidCacheKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
