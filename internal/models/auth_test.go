package models

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"Disastrous/pkg/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	return engine
}

func TestCurrentUserWithoutInjectedDB(t *testing.T) {
	engine := sessionEngine(t)
	engine.GET("/login", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(SessionKeyUserID, uint(1))
		require.NoError(t, s.Save())
		c.Status(http.StatusOK)
	})
	// InjectDB 缺席时 CurrentUser 应返回 nil 而不是 panic
	engine.GET("/who", func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.Status(http.StatusOK)
	})

	login := httptest.NewRecorder()
	engine.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	who := httptest.NewRecorder()
	engine.ServeHTTP(who, req)
	assert.Equal(t, http.StatusNoContent, who.Code)
}

func TestCurrentUserLoadsAndCaches(t *testing.T) {
	db := newTestDB(t)
	user, err := RegisterUser(db, "who@disastrous.local", "password-123", RoleRescue)
	require.NoError(t, err)

	engine := sessionEngine(t)
	engine.Use(middleware.InjectDB(db))
	engine.GET("/login", func(c *gin.Context) {
		require.NoError(t, LoginSession(c, user))
		c.Status(http.StatusOK)
	})
	engine.GET("/who", func(c *gin.Context) {
		got := CurrentUser(c)
		require.NotNil(t, got)
		assert.Equal(t, user.Email, got.Email)
		// 同一请求内第二次读走上下文缓存
		assert.Same(t, got, CurrentUser(c))
		c.Status(http.StatusOK)
	})

	login := httptest.NewRecorder()
	engine.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	who := httptest.NewRecorder()
	engine.ServeHTTP(who, req)
	assert.Equal(t, http.StatusOK, who.Code)
}
