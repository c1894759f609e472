package comment

import (
	"context"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// Repository defines the storage contract for comments.
type Repository interface {
	ForPost(ctx context.Context, postID string) ([]domain.Comment, error)
	Save(ctx context.Context, c *domain.Comment) error
}

// PostFinder confirms that a post exists.
type PostFinder interface {
	BySlug(ctx context.Context, slug string) (domain.Post, error)
}
