package comment

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/firestore"
	"github.com/kailas-cloud/inkwell/internal/query"
)

// executor is the consumer interface for running queries (ISP).
type executor interface {
	Get(ctx context.Context, b *query.Builder) ([]domain.Record, error)
	Count(ctx context.Context, b *query.Builder) (int, error)
}

// patcher writes documents.
type patcher interface {
	PatchDocument(ctx context.Context, collection, id string, fields map[string]firestore.Value) (firestore.Document, error)
}

// Repo implements usecase/comment.Repository.
type Repo struct {
	exec    executor
	patcher patcher
}

// New creates a comment repository.
func New(e executor, p patcher) *Repo {
	return &Repo{exec: e, patcher: p}
}

// ForPost returns the comments of a post, oldest first.
func (r *Repo) ForPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	recs, err := r.exec.Get(ctx, query.New(domain.CollectionComments).
		WhereEqualTo("postId", postID).
		OrderBy("createdAt", query.Asc))
	if err != nil {
		return nil, fmt.Errorf("comments of %s: %w", postID, err)
	}
	comments, err := domain.DecodeRecords[domain.Comment](recs)
	if err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

// Count returns the total number of comments.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.exec.Count(ctx, query.New(domain.CollectionComments).Select("postId"))
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

// Save stores a comment under its id.
func (r *Repo) Save(ctx context.Context, c *domain.Comment) error {
	fields := make(map[string]firestore.Value)
	for k, v := range c.Fields() {
		fv, err := firestore.Encode(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		fields[k] = fv
	}
	if _, err := r.patcher.PatchDocument(ctx, domain.CollectionComments, c.ID, fields); err != nil {
		return fmt.Errorf("save comment %s: %w", c.ID, query.MapError(err))
	}
	return nil
}
