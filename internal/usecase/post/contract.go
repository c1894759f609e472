package post

import (
	"context"

	"github.com/kailas-cloud/inkwell/internal/domain"
	postrepo "github.com/kailas-cloud/inkwell/internal/repository/post"
)

// Repository defines the read contract for posts.
type Repository interface {
	List(ctx context.Context, opts postrepo.ListOptions) ([]domain.Post, error)
	Popular(ctx context.Context, limit int) ([]domain.Post, error)
	Published(ctx context.Context) ([]domain.Post, error)
	BySlug(ctx context.Context, slug string) (domain.Post, error)
	Count(ctx context.Context, status domain.PostStatus) (int, error)
	Engagement(ctx context.Context) ([]domain.Post, error)
}

// Counter counts documents of a related collection.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// CategoryLister lists categories.
type CategoryLister interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// Summarizer writes an excerpt for a post that has none.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}
