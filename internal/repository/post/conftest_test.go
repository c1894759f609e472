package post

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/query"
)

// mockExecutor implements the consumer interface for tests.
type mockExecutor struct {
	records []domain.Record
	err     error
	last    *query.Builder
}

func (m *mockExecutor) Get(_ context.Context, b *query.Builder) ([]domain.Record, error) {
	m.last = b
	return m.records, m.err
}

func (m *mockExecutor) First(_ context.Context, b *query.Builder) (domain.Record, error) {
	m.last = b.One()
	if m.err != nil {
		return nil, m.err
	}
	if len(m.records) == 0 {
		return nil, domain.ErrNotFound
	}
	return m.records[0], nil
}

func (m *mockExecutor) Count(_ context.Context, b *query.Builder) (int, error) {
	m.last = b
	return len(m.records), m.err
}

func builtJSON(t *testing.T, b *query.Builder) string {
	t.Helper()
	q, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return string(data)
}
