package outline

import (
	"context"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// PostFinder loads post content.
type PostFinder interface {
	BySlug(ctx context.Context, slug string) (domain.Post, error)
}
