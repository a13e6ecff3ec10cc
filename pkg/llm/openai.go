package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const (
	baseRetryDelay = time.Second
	maxRetryDelay  = 10 * time.Second
)

var ErrEmptyCompletion = errors.New("empty completion from upstream")

// OpenAIHandler implements the LLM interface against any OpenAI-compatible
// gateway (the deployment default is the A4F endpoint).
type OpenAIHandler struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

// NewOpenAIHandler creates a new OpenAI-compatible handler
func NewOpenAIHandler(apiKey, baseURL, model string, logger *logrus.Logger) *OpenAIHandler {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &OpenAIHandler{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Query sends one chat completion request
func (h *OpenAIHandler) Query(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	start := time.Now()
	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       h.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	h.logger.WithField("elapsed", time.Since(start).String()).Debug("completion finished")

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

// QueryWithRetry retries retryable failures with exponential backoff,
// capped at maxRetryDelay per wait. A non-retryable error fails fast.
func (h *OpenAIHandler) QueryWithRetry(ctx context.Context, req Request, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		content, err := h.Query(ctx, req)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !Retryable(err) {
			return "", err
		}
		h.logger.WithError(err).Warnf("completion attempt %d/%d failed", attempt+1, maxAttempts)

		if attempt == maxAttempts-1 {
			break
		}
		delay := baseRetryDelay << uint(attempt)
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", lastErr
}
