package category

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/query"
)

// executor is the consumer interface for running queries (ISP).
type executor interface {
	Get(ctx context.Context, b *query.Builder) ([]domain.Record, error)
}

// Repo implements usecase/category.Repository.
type Repo struct {
	exec executor
}

// New creates a category repository.
func New(e executor) *Repo {
	return &Repo{exec: e}
}

// List returns all categories ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Category, error) {
	recs, err := r.exec.Get(ctx, query.New(domain.CollectionCategories).OrderBy("name", query.Asc))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	cats, err := domain.DecodeRecords[domain.Category](recs)
	if err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return cats, nil
}
