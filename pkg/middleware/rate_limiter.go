package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter 按客户端 IP 限流。rate 形如 "30-M"、"100-H"。
// 保护上游配额用，不作为安全加固手段。
func RateLimiter(rate string) gin.HandlerFunc {
	formatted, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		// 配置错误时不限流
		return func(c *gin.Context) { c.Next() }
	}
	lim := limiter.New(memory.NewStore(), formatted)

	return func(c *gin.Context) {
		context, err := lim.Get(c, c.ClientIP())
		if err != nil {
			c.Next()
			return
		}
		if context.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please wait a moment and try again.",
			})
			return
		}
		c.Next()
	}
}
