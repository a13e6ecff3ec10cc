package llm

import (
	"context"
	"strings"
	"unicode"
)

// LLM represents a generic interface for interacting with text completion services
type LLM interface {
	// Query sends one completion request and returns the response text
	Query(ctx context.Context, req Request) (string, error)

	// QueryWithRetry retries retryable upstream failures with bounded
	// exponential backoff before giving up
	QueryWithRetry(ctx context.Context, req Request, maxAttempts int) (string, error)
}

// Request 一次补全请求
type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// SanitizeText strips invalid UTF-8, surrogate range and non-characters,
// then normalizes whitespace. Upstream rejects payloads carrying them.
func SanitizeText(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = strings.Map(func(r rune) rune {
		if r >= 0xD800 && r <= 0xDFFF {
			return -1
		}
		if r == 0xFFFE || r == 0xFFFF {
			return -1
		}
		if r != '\n' && r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// retryableKeywords 可重试的上游错误特征（超时、限流、网关错误）
var retryableKeywords = []string{
	"timeout", "connection", "network", "temporary",
	"rate limit", "429", "502", "503", "504",
}

// Retryable reports whether an upstream error is worth retrying
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, kw := range retryableKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
