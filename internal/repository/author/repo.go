package author

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/query"
)

// Repo implements usecase/author.Repository on top of the join resolver,
// so profile reads share its cache.
type Repo struct {
	authors query.AuthorResolver
}

// New creates an author repository.
func New(r query.AuthorResolver) *Repo {
	return &Repo{authors: r}
}

// Get returns one author.
func (r *Repo) Get(ctx context.Context, id string) (domain.Author, error) {
	rec, err := r.authors.ResolveAuthor(ctx, id)
	if err != nil {
		return domain.Author{}, fmt.Errorf("author %s: %w", id, err)
	}
	return domain.DecodeRecord[domain.Author](rec)
}
