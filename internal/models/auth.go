package models

import (
	"net/http"

	"Disastrous/pkg/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	SessionKeyUserID = "user_id"
	SessionKeyRole   = "user_role"
)

// LoginSession 将认证结果写入会话
func LoginSession(c *gin.Context, user *User) error {
	session := sessions.Default(c)
	session.Set(SessionKeyUserID, user.ID)
	session.Set(SessionKeyRole, user.Role)
	return session.Save()
}

// LogoutSession 清空会话
func LogoutSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

// CurrentUser 从会话取当前用户，未登录返回 nil
func CurrentUser(c *gin.Context) *User {
	if cached, ok := c.Get("_current_user"); ok {
		return cached.(*User)
	}
	session := sessions.Default(c)
	id, ok := session.Get(SessionKeyUserID).(uint)
	if !ok {
		return nil
	}
	// InjectDB 没挂时拿不到句柄，按未登录处理，不 panic
	v, ok := c.Get(middleware.DbField)
	if !ok {
		return nil
	}
	db, ok := v.(*gorm.DB)
	if !ok {
		return nil
	}
	user, err := GetUserByID(db, id)
	if err != nil {
		return nil
	}
	c.Set("_current_user", user)
	return user
}

// SessionRole 会话中的角色，未登录为空串
func SessionRole(c *gin.Context) string {
	session := sessions.Default(c)
	role, _ := session.Get(SessionKeyRole).(string)
	return role
}

// AuthRequired 要求已登录
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	if _, ok := session.Get(SessionKeyUserID).(uint); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":    "authentication required",
			"redirect": "/authority-login",
		})
		return
	}
	c.Next()
}

// RoleRequired 要求指定角色，RoleAny 放行任何已登录用户
func RoleRequired(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if _, ok := session.Get(SessionKeyUserID).(uint); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"redirect": "/authority-login",
			})
			return
		}
		if role != RoleAny && SessionRole(c) != role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "insufficient role",
				"redirect": "/authority-login",
			})
			return
		}
		c.Next()
	}
}
