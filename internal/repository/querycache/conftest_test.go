package querycache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/db"
	"github.com/kailas-cloud/inkwell/internal/firestore"
)

type mockRunner struct {
	docs  []firestore.Document
	err   error
	calls int
}

func (m *mockRunner) RunQuery(_ context.Context, _ *firestore.StructuredQuery) ([]firestore.Document, error) {
	m.calls++
	return m.docs, m.err
}

// memStore is an in-memory KV store with pluggable failures.
type memStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestRunner(t *testing.T, inner *mockRunner) (*CachedRunner, *memStore) {
	t.Helper()
	ms := newMemStore()
	return New(inner, ms, time.Minute, nil, zap.NewNop()), ms
}
