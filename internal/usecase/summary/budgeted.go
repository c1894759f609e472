package summary

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/metrics"
)

// Generator produces an excerpt and reports the tokens it used.
type Generator interface {
	Summary(ctx context.Context, title, content string) (domain.Summary, error)
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// BudgetChecker is the budget surface the summarizer needs.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	Remaining() (daily, monthly int64)
}

// Budgeted enforces a token budget around a Generator. It satisfies the
// post service's Summarizer.
type Budgeted struct {
	inner  Generator
	model  string
	budget BudgetChecker
	logger *zap.Logger
}

// NewBudgeted wraps inner. A nil budget only adds logging.
func NewBudgeted(inner Generator, model string, budget BudgetChecker, logger *zap.Logger) *Budgeted {
	return &Budgeted{
		inner:  inner,
		model:  model,
		budget: budget,
		logger: logger,
	}
}

// Summarize checks the budget, generates the excerpt and records usage.
func (s *Budgeted) Summarize(ctx context.Context, title, content string) (string, error) {
	if s.budget != nil {
		if err := s.budget.Check(ctx); err != nil {
			s.logger.Warn("Summarizer budget exhausted",
				zap.String("model", s.model),
				zap.Error(err),
			)
			return "", fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	res, err := s.inner.Summary(ctx, title, content)
	duration := time.Since(start)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	if s.budget != nil && res.TotalTokens > 0 {
		s.budget.Record(int64(res.TotalTokens))
		daily, monthly := s.budget.Remaining()
		metrics.SummarizerBudgetTokensRemaining.WithLabelValues("daily").Set(float64(daily))
		metrics.SummarizerBudgetTokensRemaining.WithLabelValues("monthly").Set(float64(monthly))
	}

	s.logger.Debug("Excerpt generated",
		zap.String("model", s.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res.Text, nil
}

// HealthCheck delegates to the wrapped generator when it supports one.
func (s *Budgeted) HealthCheck(ctx context.Context) error {
	if hc, ok := s.inner.(healthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
