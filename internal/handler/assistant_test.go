package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"Disastrous/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	reply string
	err   error
	calls int
	last  llm.Request
}

func (s *stubLLM) Query(ctx context.Context, req llm.Request) (string, error) {
	s.calls++
	s.last = req
	return s.reply, s.err
}

func (s *stubLLM) QueryWithRetry(ctx context.Context, req llm.Request, maxAttempts int) (string, error) {
	return s.Query(ctx, req)
}

func TestChatUnconfigured(t *testing.T) {
	app := newTestApp(t, nil)

	resp := postJSON(t, http.DefaultClient, app.server.URL+"/api/chat", map[string]string{"message": "hi"})
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = postJSON(t, http.DefaultClient, app.server.URL+"/api/translate",
		map[string]string{"text": "hi", "target_language": "Hindi"})
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestChatValidation(t *testing.T) {
	stub := &stubLLM{reply: "ok"}
	app := newTestApp(t, stub)

	resp := postJSON(t, http.DefaultClient, app.server.URL+"/api/chat", map[string]string{"message": "   "})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, http.DefaultClient, app.server.URL+"/api/chat",
		map[string]string{"message": strings.Repeat("a", 5001)})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Zero(t, stub.calls)
}

func TestChatEmergencyPrompt(t *testing.T) {
	stub := &stubLLM{reply: "stay calm"}
	app := newTestApp(t, stub)

	resp := postJSON(t, http.DefaultClient, app.server.URL+"/api/chat", map[string]string{
		"message":  "there is a flood",
		"type":     "emergency",
		"language": "hi",
	})
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "stay calm", body["response"])
	assert.Equal(t, "success", body["status"])
	assert.Contains(t, body, "api_time")

	// 紧急模式切换提示词，并带上目标语言
	assert.Contains(t, stub.last.System, "emergency support assistant")
	assert.Contains(t, stub.last.System, "'hi'")
}

func TestChatUpstreamErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errors.New("context deadline exceeded"), http.StatusGatewayTimeout},
		{errors.New("429 rate limit reached"), http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := newTestApp(t, &stubLLM{err: tc.err})
		resp := postJSON(t, http.DefaultClient, app.server.URL+"/api/chat",
			map[string]string{"message": "hello"})
		resp.Body.Close()
		assert.Equal(t, tc.want, resp.StatusCode, tc.err.Error())
	}
}

func TestTranslateCachesResults(t *testing.T) {
	stub := &stubLLM{reply: "1: नमस्ते"}
	app := newTestApp(t, stub)

	payload := map[string]string{"text": "1: hello", "target_language": "Hindi"}

	resp := postJSON(t, http.DefaultClient, app.server.URL+"/api/translate", payload)
	var first map[string]interface{}
	decodeBody(t, resp, &first)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1: नमस्ते", first["translated_text"])
	assert.Nil(t, first["cached"])

	resp = postJSON(t, http.DefaultClient, app.server.URL+"/api/translate", payload)
	var second map[string]interface{}
	decodeBody(t, resp, &second)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1: नमस्ते", second["translated_text"])
	assert.Equal(t, true, second["cached"])

	// 命中缓存就不再打上游
	assert.Equal(t, 1, stub.calls)
}

func TestTranslateValidation(t *testing.T) {
	stub := &stubLLM{reply: "x"}
	app := newTestApp(t, stub)

	for _, payload := range []map[string]string{
		{"target_language": "Hindi"},
		{"text": "hello"},
		{"text": strings.Repeat("a", 10001), "target_language": "Hindi"},
	} {
		resp := postJSON(t, http.DefaultClient, app.server.URL+"/api/translate", payload)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
	assert.Zero(t, stub.calls)
}
