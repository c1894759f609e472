package sitemap

import (
	"context"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// PostLister lists published posts with all fields.
type PostLister interface {
	Published(ctx context.Context) ([]domain.Post, error)
}

// CategoryLister lists categories.
type CategoryLister interface {
	List(ctx context.Context) ([]domain.Category, error)
}
