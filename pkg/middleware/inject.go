package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const DbField = "db"

// InjectDB 把全局 DB 句柄挂到请求上下文
func InjectDB(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(DbField, db)
		c.Next()
	}
}
