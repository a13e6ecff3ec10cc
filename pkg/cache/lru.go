package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// lruWrapper 容量有界的 LRU 缓存，适合键空间大的场景（如翻译结果）。
// 过期时间在创建时统一指定，Set 的 expiration 参数被忽略。
type lruWrapper struct {
	cache *expirable.LRU[string, interface{}]
}

// NewLRUCache 创建容量与 TTL 双重有界的 LRU 缓存
func NewLRUCache(size int, ttl time.Duration) Cache {
	return &lruWrapper{cache: expirable.NewLRU[string, interface{}](size, nil, ttl)}
}

func (lw *lruWrapper) Get(key string) (interface{}, bool) {
	return lw.cache.Get(key)
}

func (lw *lruWrapper) Set(key string, value interface{}, _ time.Duration) {
	lw.cache.Add(key, value)
}

func (lw *lruWrapper) Delete(key string) {
	lw.cache.Remove(key)
}

func (lw *lruWrapper) Len() int {
	return lw.cache.Len()
}
