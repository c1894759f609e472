package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/metrics"
)

const defaultSystemPrompt = "You write short excerpts for blog posts. " +
	"Answer with one or two plain sentences, no markdown, no quotes."

// maxInputRunes bounds the post content sent for summarization.
const maxInputRunes = 8000

// Summarizer writes post excerpts using an OpenAI-compatible chat API.
type Summarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	prompt    string
	logger    *zap.Logger
}

// Config holds the summarizer settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	// SystemPrompt overrides the default instructions.
	SystemPrompt string
	Logger       *zap.Logger
}

// NewSummarizer creates an OpenAI-compatible summarizer.
func NewSummarizer(cfg *Config) *Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		prompt:    prompt,
		logger:    logger,
	}
}

// Summarize returns a short excerpt of a post.
func (s *Summarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	res, err := s.Summary(ctx, title, content)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Summary returns a short excerpt of a post together with token usage.
func (s *Summarizer) Summary(ctx context.Context, title, content string) (domain.Summary, error) {
	if r := []rune(content); len(r) > maxInputRunes {
		content = string(r[:maxInputRunes])
	}
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.prompt},
			{Role: openai.ChatMessageRoleUser, Content: "Title: " + title + "\n\n" + content},
		},
	}
	if s.maxTokens > 0 {
		req.MaxTokens = s.maxTokens
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.SummarizerRequestsTotal.WithLabelValues(s.model, "error").Inc()
		s.logger.Warn("Summarizer request failed",
			zap.String("model", s.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Summary{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.SummarizerRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return domain.Summary{}, fmt.Errorf("empty completion: %w", domain.ErrSummarizerError)
	}

	metrics.SummarizerRequestsTotal.WithLabelValues(s.model, "success").Inc()
	if resp.Usage.TotalTokens > 0 {
		metrics.SummarizerTokensTotal.WithLabelValues(s.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.SummarizerTokensTotal.WithLabelValues(s.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return domain.Summary{
		Text:             strings.TrimSpace(resp.Choices[0].Message.Content),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels.
func (s *Summarizer) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError wraps every failure with domain.ErrSummarizerError.
func parseAPIError(err error) error {
	wrap := domain.ErrSummarizerError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("summarizer API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("summarizer API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("summarizer API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("summarizer request failed: %w", wrap)
}

// extractDetail reads the "detail" field some compatible providers return.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
