package summary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// keyPrefix namespaces budget counters in the shared Redis.
const keyPrefix = "inkwell:budget:"

// Action is what happens once the budget is spent.
type Action string

const (
	// ActionWarn logs and lets the request through.
	ActionWarn Action = "warn"
	// ActionReject fails the request with domain.ErrSummaryBudgetExceeded.
	ActionReject Action = "reject"
)

// Limits are token caps per period. Zero means unlimited.
type Limits struct {
	Daily   int64
	Monthly int64
}

// Counters persists token spend across restarts.
type Counters interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// Budget tracks summarizer token spend per UTC day and month.
// Check reads memory only; Record updates memory and then the store.
type Budget struct {
	mu          sync.Mutex
	name        string
	limits      Limits
	action      Action
	dailyUsed   int64
	monthlyUsed int64
	day         time.Time
	month       time.Time
	store       Counters
	now         func() time.Time
	logger      *zap.Logger
}

// NewBudget creates a budget named after the model it guards.
func NewBudget(name string, limits Limits, action Action, logger *zap.Logger) *Budget {
	if action != ActionReject {
		action = ActionWarn
	}
	b := &Budget{
		name:   name,
		limits: limits,
		action: action,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
	now := b.now()
	b.day, b.month = startOfDay(now), startOfMonth(now)
	return b
}

// WithStore attaches persistence and loads the current period's spend.
// Load failures are logged and leave the counters at zero.
func (b *Budget) WithStore(ctx context.Context, store Counters) *Budget {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	now := b.now()
	if v, err := store.Get(ctx, b.dailyKey(now)); err == nil {
		b.dailyUsed = v
	} else {
		b.logger.Warn("Failed to load daily summarizer budget", zap.Error(err))
	}
	if v, err := store.Get(ctx, b.monthlyKey(now)); err == nil {
		b.monthlyUsed = v
	} else {
		b.logger.Warn("Failed to load monthly summarizer budget", zap.Error(err))
	}

	b.logger.Info("Summarizer budget loaded",
		zap.String("name", b.name),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("monthly_used", b.monthlyUsed),
	)
	return b
}

// Check reports whether another request fits the budget.
func (b *Budget) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roll()

	daily := b.limits.Daily > 0 && b.dailyUsed >= b.limits.Daily
	monthly := b.limits.Monthly > 0 && b.monthlyUsed >= b.limits.Monthly
	if !daily && !monthly {
		return nil
	}
	if b.action == ActionReject {
		period := "daily"
		if !daily {
			period = "monthly"
		}
		return fmt.Errorf("%s limit reached: %w", period, domain.ErrSummaryBudgetExceeded)
	}

	b.logger.Warn("Summarizer budget exceeded",
		zap.String("name", b.name),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("daily_limit", b.limits.Daily),
		zap.Int64("monthly_used", b.monthlyUsed),
		zap.Int64("monthly_limit", b.limits.Monthly),
	)
	return nil
}

// Record adds consumed tokens. Store writes run detached from any request
// context with a 2s timeout.
func (b *Budget) Record(tokens int64) {
	if tokens <= 0 {
		return
	}
	b.mu.Lock()
	b.roll()
	b.dailyUsed += tokens
	b.monthlyUsed += tokens
	store := b.store
	now := b.now()
	dailyKey, monthlyKey := b.dailyKey(now), b.monthlyKey(now)
	b.mu.Unlock()

	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := store.IncrBy(ctx, dailyKey, tokens); err != nil {
		b.logger.Warn("Failed to persist daily summarizer budget", zap.String("key", dailyKey), zap.Error(err))
	}
	if err := store.IncrBy(ctx, monthlyKey, tokens); err != nil {
		b.logger.Warn("Failed to persist monthly summarizer budget", zap.String("key", monthlyKey), zap.Error(err))
	}
}

// Remaining returns tokens left today and this month, -1 when unlimited.
func (b *Budget) Remaining() (daily, monthly int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roll()
	return remaining(b.limits.Daily, b.dailyUsed), remaining(b.limits.Monthly, b.monthlyUsed)
}

// Used returns tokens spent today and this month.
func (b *Budget) Used() (daily, monthly int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roll()
	return b.dailyUsed, b.monthlyUsed
}

func remaining(limit, used int64) int64 {
	switch {
	case limit == 0:
		return -1
	case used >= limit:
		return 0
	}
	return limit - used
}

// roll zeroes counters whose period has ended. Caller holds mu.
func (b *Budget) roll() {
	now := b.now()
	if d := startOfDay(now); d.After(b.day) {
		b.dailyUsed, b.day = 0, d
	}
	if m := startOfMonth(now); m.After(b.month) {
		b.monthlyUsed, b.month = 0, m
	}
}

func (b *Budget) dailyKey(t time.Time) string {
	return keyPrefix + b.name + ":daily:" + t.Format("2006-01-02")
}

func (b *Budget) monthlyKey(t time.Time) string {
	return keyPrefix + b.name + ":monthly:" + t.Format("2006-01")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
