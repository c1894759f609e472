package summary

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

type memCounters struct {
	mu     sync.Mutex
	data   map[string]int64
	getErr error
	setErr error
}

func newMemCounters() *memCounters {
	return &memCounters{data: make(map[string]int64)}
}

func (m *memCounters) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] += val
	return nil
}

func (m *memCounters) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.data[key], nil
}

// fixedClock pins the budget to t and returns a setter to move it.
func fixedClock(b *Budget, t time.Time) func(time.Time) {
	var mu sync.Mutex
	cur := t
	b.mu.Lock()
	b.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return cur
	}
	b.day, b.month = startOfDay(t), startOfMonth(t)
	b.mu.Unlock()
	return func(next time.Time) {
		mu.Lock()
		cur = next
		mu.Unlock()
	}
}

func TestBudget_Check(t *testing.T) {
	tests := []struct {
		name    string
		limits  Limits
		action  Action
		record  int64
		wantErr bool
	}{
		{"below daily", Limits{Daily: 1000, Monthly: 10000}, ActionReject, 500, false},
		{"daily reject", Limits{Daily: 100}, ActionReject, 100, true},
		{"monthly reject", Limits{Monthly: 500}, ActionReject, 500, true},
		{"warn lets through", Limits{Daily: 100}, ActionWarn, 200, false},
		{"unlimited", Limits{}, ActionReject, 999999999, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBudget("test", tc.limits, tc.action, zap.NewNop())
			b.Record(tc.record)

			err := b.Check(context.Background())
			if tc.wantErr && !errors.Is(err, domain.ErrSummaryBudgetExceeded) {
				t.Fatalf("expected ErrSummaryBudgetExceeded, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewBudget_UnknownActionWarns(t *testing.T) {
	b := NewBudget("test", Limits{Daily: 1}, Action("explode"), zap.NewNop())
	b.Record(5)
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("unknown action must behave as warn, got %v", err)
	}
}

func TestBudget_Remaining(t *testing.T) {
	b := NewBudget("test", Limits{Daily: 1000, Monthly: 10000}, ActionWarn, zap.NewNop())
	b.Record(300)

	daily, monthly := b.Remaining()
	if daily != 700 || monthly != 9700 {
		t.Errorf("remaining = %d/%d, want 700/9700", daily, monthly)
	}

	b.Record(5000)
	daily, _ = b.Remaining()
	if daily != 0 {
		t.Errorf("overspent daily remaining = %d, want 0", daily)
	}

	unlimited := NewBudget("test", Limits{}, ActionWarn, zap.NewNop())
	daily, monthly = unlimited.Remaining()
	if daily != -1 || monthly != -1 {
		t.Errorf("unlimited remaining = %d/%d, want -1/-1", daily, monthly)
	}
}

func TestBudget_RecordIgnoresNonPositive(t *testing.T) {
	b := NewBudget("test", Limits{Daily: 10}, ActionReject, zap.NewNop())
	b.Record(0)
	b.Record(-4)
	if d, m := b.Used(); d != 0 || m != 0 {
		t.Errorf("used = %d/%d, want 0/0", d, m)
	}
}

func TestBudget_RollsOverAtDayAndMonth(t *testing.T) {
	b := NewBudget("test", Limits{Daily: 100, Monthly: 1000}, ActionReject, zap.NewNop())
	set := fixedClock(b, time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC))

	b.Record(100)
	if err := b.Check(context.Background()); err == nil {
		t.Fatal("expected daily limit to be reached")
	}

	set(time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC))
	if d, _ := b.Used(); d != 100 {
		t.Errorf("same day used = %d, want 100", d)
	}

	set(time.Date(2026, 4, 1, 0, 1, 0, 0, time.UTC))
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("new day must reset the budget: %v", err)
	}
	if d, m := b.Used(); d != 0 || m != 0 {
		t.Errorf("after rollover used = %d/%d, want 0/0", d, m)
	}
}

func TestBudget_WithStoreLoadsCurrentPeriod(t *testing.T) {
	store := newMemCounters()
	b := NewBudget("gpt", Limits{Daily: 1000, Monthly: 10000}, ActionReject, zap.NewNop())
	fixedClock(b, time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC))
	store.data["inkwell:budget:gpt:daily:2026-03-05"] = 300
	store.data["inkwell:budget:gpt:monthly:2026-03"] = 5000
	store.data["inkwell:budget:gpt:daily:2026-03-04"] = 999

	b.WithStore(context.Background(), store)

	if d, m := b.Used(); d != 300 || m != 5000 {
		t.Errorf("used = %d/%d, want 300/5000", d, m)
	}
}

func TestBudget_RecordPersists(t *testing.T) {
	store := newMemCounters()
	b := NewBudget("gpt", Limits{}, ActionWarn, zap.NewNop())
	fixedClock(b, time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC))
	b.WithStore(context.Background(), store)

	b.Record(100)
	b.Record(200)

	store.mu.Lock()
	defer store.mu.Unlock()
	if got := store.data["inkwell:budget:gpt:daily:2026-03-05"]; got != 300 {
		t.Errorf("stored daily = %d, want 300", got)
	}
	if got := store.data["inkwell:budget:gpt:monthly:2026-03"]; got != 300 {
		t.Errorf("stored monthly = %d, want 300", got)
	}
}

func TestBudget_StoreErrorsKeepMemoryCounters(t *testing.T) {
	store := newMemCounters()
	store.getErr = errors.New("connection refused")
	b := NewBudget("gpt", Limits{Daily: 100}, ActionReject, zap.NewNop())
	b.WithStore(context.Background(), store)

	if d, m := b.Used(); d != 0 || m != 0 {
		t.Errorf("used after load error = %d/%d, want 0/0", d, m)
	}

	store.mu.Lock()
	store.setErr = errors.New("write timeout")
	store.mu.Unlock()

	b.Record(100)
	if d, _ := b.Used(); d != 100 {
		t.Errorf("daily used = %d, want 100", d)
	}
	if err := b.Check(context.Background()); !errors.Is(err, domain.ErrSummaryBudgetExceeded) {
		t.Fatalf("expected ErrSummaryBudgetExceeded, got %v", err)
	}
}
