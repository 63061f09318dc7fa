package cache

import (
	"time"

	"github.com/die-net/lrucache"
	"github.com/gregjones/httpcache"
)

const (
	maxHTTPCacheSize = 256 * 1024 * 1024 // 256MB, enough for a few weaver releases
	maxHTTPCacheAge  = 24 * time.Hour
)

// HTTP returns the response store backing the download transport.
func HTTP() httpcache.Cache {
	return lrucache.New(maxHTTPCacheSize, int64(maxHTTPCacheAge/time.Second))
}
