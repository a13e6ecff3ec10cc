package cache

import "time"

// Cache 进程内缓存接口
type Cache interface {
	// Get 获取缓存值
	Get(key string) (interface{}, bool)

	// Set 设置缓存值
	Set(key string, value interface{}, expiration time.Duration)

	// Delete 删除缓存
	Delete(key string)

	// Len 当前缓存项数
	Len() int
}
