package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"Disastrous/pkg/llm"
	"Disastrous/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	chatTimeout      = 20 * time.Second
	translateTimeout = 30 * time.Second
	maxChatChars     = 5000
	maxTranslateLen  = 10000
)

const assistantSystemPrompt = `You are a helpful AI assistant for "Disastrous", a disaster management web application.
Your primary goal is to assist users with disaster preparedness, safety information, and navigating the application.
The application has these pages: Home, Forecasts, Alerts, Rescue, Guidelines, Settings.
Respond exclusively in '%s'. Be helpful, clear, and concise, especially for emergency-related queries.`

const emergencySystemPrompt = `You are an emergency support assistant.
Provide immediate guidance and safety instructions in '%s'. If it's a true emergency,
remind them to call 112 immediately. Keep responses urgent and helpful.`

const translatePrompt = `You are a professional translator for a disaster management web application.
Translate the following UI text from English to %s.
Keep emergency numbers (112, 1078, 101) unchanged, keep icons and emojis unchanged,
and maintain the exact format "number: translated_text".
Make translations clear and concise for emergency situations.

Text to translate:
%s

Return ONLY the translated lines in the same format.`

func (h *Handlers) handleChat(c *gin.Context) {
	if h.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI chat service not configured. Please check API settings."})
		return
	}

	var req struct {
		Message  string `json:"message"`
		Type     string `json:"type"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON data provided"})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required and cannot be empty"})
		return
	}
	if len(message) > maxChatChars {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message too long (maximum 5,000 characters allowed)"})
		return
	}
	message = llm.SanitizeText(message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message contains only invalid characters after sanitization"})
		return
	}
	language := req.Language
	if language == "" {
		language = "en"
	}

	system := fmt.Sprintf(assistantSystemPrompt, language)
	if req.Type == "emergency" {
		system = fmt.Sprintf(emergencySystemPrompt, language)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), chatTimeout)
	defer cancel()

	start := time.Now()
	answer, err := h.assistant.Query(ctx, llm.Request{
		System:      system,
		User:        message,
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		h.assistantError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": strings.TrimSpace(answer),
		"status":   "success",
		"api_time": time.Since(start).Seconds(),
	})
}

func (h *Handlers) handleTranslate(c *gin.Context) {
	if h.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI translation service not configured. Please check API settings."})
		return
	}

	var req struct {
		Text           string `json:"text"`
		TargetLanguage string `json:"target_language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON data provided"})
		return
	}
	text := strings.TrimSpace(req.Text)
	target := strings.TrimSpace(req.TargetLanguage)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required and cannot be empty"})
		return
	}
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target language is required"})
		return
	}
	if len(text) > maxTranslateLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text too long (maximum 10,000 characters allowed)"})
		return
	}

	original := text
	text = llm.SanitizeText(text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text contains only invalid characters after sanitization"})
		return
	}

	cacheKey := target + "\x00" + text
	if cached, ok := h.translations.Get(cacheKey); ok {
		c.JSON(http.StatusOK, gin.H{
			"translated_text": cached,
			"original_text":   original,
			"target_language": target,
			"status":          "success",
			"cached":          true,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), translateTimeout)
	defer cancel()

	translated, err := h.assistant.QueryWithRetry(ctx, llm.Request{
		User:        fmt.Sprintf(translatePrompt, target, text),
		Temperature: 0.1,
		MaxTokens:   3000,
	}, 3)
	if err != nil {
		h.assistantError(c, err)
		return
	}
	translated = strings.TrimSpace(translated)
	h.translations.Set(cacheKey, translated, 0)

	c.JSON(http.StatusOK, gin.H{
		"translated_text": translated,
		"original_text":   original,
		"target_language": target,
		"status":          "success",
	})
}

// 上游错误映射：超时 504、限流 429，其余 500
func (h *Handlers) assistantError(c *gin.Context, err error) {
	logger.Warn("assistant upstream error", zap.Error(err))
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error":  "Service is taking too long to respond. Please try again.",
			"status": "timeout",
		})
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":  "Too many requests. Please wait a moment and try again.",
			"status": "rate_limited",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Upstream service error",
			"status": "api_error",
		})
	}
}
