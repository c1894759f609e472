package comment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// --- Mocks ---

type mockRepo struct {
	comments []domain.Comment
	saved    []domain.Comment
	err      error
}

func (m *mockRepo) ForPost(_ context.Context, _ string) ([]domain.Comment, error) {
	return m.comments, m.err
}

func (m *mockRepo) Save(_ context.Context, c *domain.Comment) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, *c)
	return nil
}

type mockPosts struct {
	slugs map[string]bool
}

func (m *mockPosts) BySlug(_ context.Context, slug string) (domain.Post, error) {
	if !m.slugs[slug] {
		return domain.Post{}, domain.ErrNotFound
	}
	return domain.Post{Slug: slug}, nil
}

func newService(repo *mockRepo) *Service {
	svc := New(repo, &mockPosts{slugs: map[string]bool{"hello": true}})
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	svc.newID = func() string { return "c-1" }
	return svc
}

// --- Tests ---

func TestAdd_AssignsIDAndTimestamps(t *testing.T) {
	repo := &mockRepo{}
	c, err := newService(repo).Add(context.Background(), domain.Comment{
		PostID:     "hello",
		AuthorName: " Ann ",
		Content:    "Nice post",
		Likes:      99,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if c.ID != "c-1" || c.AuthorName != "Ann" || c.Likes != 0 {
		t.Errorf("unexpected comment: %+v", c)
	}
	if !c.CreatedAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) || !c.UpdatedAt.Equal(c.CreatedAt) {
		t.Errorf("unexpected timestamps: %+v", c)
	}
	if len(repo.saved) != 1 || repo.saved[0].ID != "c-1" {
		t.Errorf("saved = %+v", repo.saved)
	}
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Comment
	}{
		{"no post", domain.Comment{AuthorName: "a", Content: "x"}},
		{"no author", domain.Comment{PostID: "hello", Content: "x"}},
		{"no content", domain.Comment{PostID: "hello", AuthorName: "a", Content: "  "}},
		{"too long", domain.Comment{PostID: "hello", AuthorName: "a", Content: strings.Repeat("x", domain.MaxCommentLength+1)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRepo{}
			_, err := newService(repo).Add(context.Background(), tc.in)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if len(repo.saved) != 0 {
				t.Error("invalid comment must not be saved")
			}
		})
	}
}

func TestAdd_UnknownPost(t *testing.T) {
	repo := &mockRepo{}
	_, err := newService(repo).Add(context.Background(), domain.Comment{PostID: "nope", AuthorName: "a", Content: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Error("comment on unknown post must not be saved")
	}
}

func TestForPost(t *testing.T) {
	repo := &mockRepo{comments: []domain.Comment{{ID: "1"}, {ID: "2"}}}
	got, err := newService(repo).ForPost(context.Background(), "hello")
	if err != nil {
		t.Fatalf("ForPost: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 comments, got %d", len(got))
	}

	if _, err := newService(repo).ForPost(context.Background(), ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestForPost_RepoError(t *testing.T) {
	_, err := newService(&mockRepo{err: domain.ErrQueryFailed}).ForPost(context.Background(), "hello")
	if !errors.Is(err, domain.ErrQueryFailed) {
		t.Fatalf("expected ErrQueryFailed, got %v", err)
	}
}
