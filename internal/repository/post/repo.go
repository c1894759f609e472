package post

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/query"
)

// executor is the consumer interface for running queries (ISP).
type executor interface {
	Get(ctx context.Context, b *query.Builder) ([]domain.Record, error)
	First(ctx context.Context, b *query.Builder) (domain.Record, error)
	Count(ctx context.Context, b *query.Builder) (int, error)
}

// ListOptions narrows a post listing.
type ListOptions struct {
	Category string
	AuthorID string
	// After continues a listing after the post published at this instant.
	After *time.Time
	Limit int
	// Full returns every field instead of the card overview.
	Full bool
	// IncludeDrafts drops the published filter.
	IncludeDrafts bool
}

// Repo implements usecase/post.Repository.
type Repo struct {
	exec executor
}

// New creates a post repository.
func New(e executor) *Repo {
	return &Repo{exec: e}
}

// List returns posts ordered by publication date, newest first.
func (r *Repo) List(ctx context.Context, opts ListOptions) ([]domain.Post, error) {
	b := query.New(domain.CollectionPosts)
	if !opts.IncludeDrafts {
		b.Published()
	}
	if opts.Category != "" {
		b.WhereArrayContains("categories", opts.Category)
	}
	if opts.AuthorID != "" {
		b.WhereEqualTo("authorId", opts.AuthorID)
	}
	b.OrderBy("publishedAt", query.Desc)
	if opts.After != nil {
		b.StartAfter(*opts.After)
	}
	if opts.Limit > 0 {
		b.Limit(opts.Limit)
	}
	if opts.Full {
		b.SetJoin()
	} else {
		b.PostOverview()
	}
	return r.get(ctx, b)
}

// Popular returns published posts with the most likes.
func (r *Repo) Popular(ctx context.Context, limit int) ([]domain.Post, error) {
	b := query.New(domain.CollectionPosts).
		Published().
		OrderBy("likeCount", query.Desc).
		PostOverview()
	if limit > 0 {
		b.Limit(limit)
	}
	return r.get(ctx, b)
}

// Published returns every published post with all fields, ordered by title.
func (r *Repo) Published(ctx context.Context) ([]domain.Post, error) {
	return r.get(ctx, query.New(domain.CollectionPosts).Published().OrderBy("title", query.Asc))
}

// BySlug returns one post with its author.
func (r *Repo) BySlug(ctx context.Context, slug string) (domain.Post, error) {
	rec, err := r.exec.First(ctx, query.New(domain.CollectionPosts).WhereEqualTo("slug", slug).SetJoin())
	if err != nil {
		return domain.Post{}, fmt.Errorf("post %s: %w", slug, err)
	}
	return domain.DecodeRecord[domain.Post](rec)
}

// Count returns the number of posts, optionally restricted to one status.
func (r *Repo) Count(ctx context.Context, status domain.PostStatus) (int, error) {
	b := query.New(domain.CollectionPosts).Select("status")
	if status != "" {
		b.WhereEqualTo("status", string(status))
	}
	n, err := r.exec.Count(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// Engagement returns likes and comment counts of every post.
func (r *Repo) Engagement(ctx context.Context) ([]domain.Post, error) {
	return r.get(ctx, query.New(domain.CollectionPosts).Select("slug", "title", "status", "likeCount", "commentCount"))
}

func (r *Repo) get(ctx context.Context, b *query.Builder) ([]domain.Post, error) {
	recs, err := r.exec.Get(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts, err := domain.DecodeRecords[domain.Post](recs)
	if err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}
