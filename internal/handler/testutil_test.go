package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"Disastrous/internal/broadcast"
	"Disastrous/internal/models"
	"Disastrous/pkg/config"
	"Disastrous/pkg/llm"
	"Disastrous/pkg/sse"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	engine     *gin.Engine
	db         *gorm.DB
	hub        *sse.Hub
	dispatcher *broadcast.Dispatcher
	server     *httptest.Server
}

func newTestApp(t *testing.T, assistant llm.LLM) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.GlobalConfig = &config.Config{
		AssistantRate: "1000-S",
		SessionSecret: "test-secret",
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.SOSRequest{}))

	// 心跳压短，流测试不用等 15 秒
	hub := sse.NewHub(75 * time.Millisecond)
	dispatcher := broadcast.NewDispatcher(db, broadcast.NewEventLog(100), hub, nil)

	engine := gin.New()
	// httptest 走明文 HTTP，关掉 Secure 否则 cookiejar 会丢掉会话 cookie
	store := cookie.NewStore([]byte("test-secret"))
	store.Options(sessions.Options{Path: "/", MaxAge: 86400, Secure: false, SameSite: http.SameSiteLaxMode})
	engine.Use(sessions.Sessions("disastrous_session", store))
	NewHandlers(db, dispatcher, hub, assistant).Register(engine)

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	return &testApp{engine: engine, db: db, hub: hub, dispatcher: dispatcher, server: server}
}

// loginClient 注册并登录一个指定角色的账号，返回带会话 cookie 的客户端
func (app *testApp) loginClient(t *testing.T, role string) *http.Client {
	t.Helper()
	email := fmt.Sprintf("%s-%s@disastrous.local", role, uuid.NewString()[:8])
	_, err := models.RegisterUser(app.db, email, "password-123", role)
	require.NoError(t, err)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	body, _ := json.Marshal(map[string]string{"email": email, "password": "password-123"})
	resp, err := client.Post(app.server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return client
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func postJSON(t *testing.T, client *http.Client, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
