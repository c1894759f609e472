package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/inkwell/internal/db"
)

// Default counter lifetimes. Keys outlive their period so a restart late in
// the day or month still reloads the current spend.
const (
	DefaultDailyTTL   = 48 * time.Hour
	DefaultMonthlyTTL = 62 * 24 * time.Hour
)

// Store keeps token counters in Redis with INCRBY and an NX expiry.
type Store struct {
	store    db.CounterStore
	dailyTTL time.Duration
	monthTTL time.Duration
}

// New creates a budget store. Non-positive TTLs fall back to the defaults.
func New(s db.CounterStore, dailyTTL, monthTTL time.Duration) *Store {
	if dailyTTL <= 0 {
		dailyTTL = DefaultDailyTTL
	}
	if monthTTL <= 0 {
		monthTTL = DefaultMonthlyTTL
	}
	return &Store{
		store:    s,
		dailyTTL: dailyTTL,
		monthTTL: monthTTL,
	}
}

// IncrBy adds val to the counter and sets its expiry if it has none yet.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) error {
	if err := s.store.IncrBy(ctx, key, val); err != nil {
		return fmt.Errorf("budget INCRBY %s: %w", key, err)
	}
	if err := s.store.Expire(ctx, key, s.ttlForKey(key), true); err != nil {
		return fmt.Errorf("budget EXPIRE %s: %w", key, err)
	}
	return nil
}

// Get returns the counter value, 0 for a missing key.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("budget GET %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("budget GET %s parse: %w", key, err)
	}
	return val, nil
}

func (s *Store) ttlForKey(key string) time.Duration {
	if strings.Contains(key, ":daily:") {
		return s.dailyTTL
	}
	return s.monthTTL
}
