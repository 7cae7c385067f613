package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/config"
	"github.com/fadilmartias/interview-grader/internal/logger"
)

const systemPrompt = "You are an experienced technical interviewer. Follow the requested output format exactly."

// OpenRouterService is a chat-completions TextGenerator.
type OpenRouterService struct {
	client *resty.Client
	model  string
	logger *zap.Logger
}

func NewOpenRouterService(cfg *config.OpenRouterConfig, log *zap.Logger) (*OpenRouterService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(90 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
		})

	return &OpenRouterService{
		client: client,
		model:  cfg.Model,
		logger: logger.OrNop(log),
	}, nil
}

func (s *OpenRouterService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model":       s.model,
			"temperature": temperature,
			"messages": []map[string]string{
				{"role": "system", "content": systemPrompt},
				{"role": "user", "content": prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}

	body := resp.String()
	if resp.IsError() {
		msg := gjson.Get(body, "error.message").String()
		if msg == "" {
			msg = logger.TruncateForLog(body, 200)
		}
		return "", fmt.Errorf("openrouter status %d: %s", resp.StatusCode(), msg)
	}

	text := gjson.Get(body, "choices.0.message.content").String()
	if text == "" {
		s.logger.Warn("openrouter returned no content", zap.String("body", logger.TruncateForLog(body, 200)))
		return "", fmt.Errorf("no response from LLM")
	}
	return text, nil
}
