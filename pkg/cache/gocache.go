package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// goCacheWrapper go-cache 包装器，适合少量、按 TTL 过期的内容缓存
type goCacheWrapper struct {
	cache *gocache.Cache
}

// NewGoCache 创建基于 go-cache 的本地缓存
func NewGoCache(defaultExpiration, cleanupInterval time.Duration) Cache {
	return &goCacheWrapper{cache: gocache.New(defaultExpiration, cleanupInterval)}
}

func (gc *goCacheWrapper) Get(key string) (interface{}, bool) {
	return gc.cache.Get(key)
}

func (gc *goCacheWrapper) Set(key string, value interface{}, expiration time.Duration) {
	gc.cache.Set(key, value, expiration)
}

func (gc *goCacheWrapper) Delete(key string) {
	gc.cache.Delete(key)
}

func (gc *goCacheWrapper) Len() int {
	return gc.cache.ItemCount()
}
