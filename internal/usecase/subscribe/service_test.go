package subscribe

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

type mockRepo struct {
	added []string
	err   error
}

func (m *mockRepo) Add(_ context.Context, email string) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, email)
	return nil
}

func TestSubscribe(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"Reader@Example.com", false},
		{"reader@example.org", true},
		{"example.com", true},
		{"", true},
	}
	for _, tc := range tests {
		t.Run(tc.email, func(t *testing.T) {
			repo := &mockRepo{}
			err := New(repo).Subscribe(context.Background(), tc.email)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Subscribe: %v", err)
			}
			if len(repo.added) != 1 || repo.added[0] != "reader@example.com" {
				t.Errorf("added = %v", repo.added)
			}
		})
	}
}

func TestSubscribe_RepoError(t *testing.T) {
	err := New(&mockRepo{err: domain.ErrQueryFailed}).Subscribe(context.Background(), "a@b.com")
	if !errors.Is(err, domain.ErrQueryFailed) {
		t.Fatalf("expected ErrQueryFailed, got %v", err)
	}
}
