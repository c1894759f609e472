package post

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/domain"
	postrepo "github.com/kailas-cloud/inkwell/internal/repository/post"
)

// Listing limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Stats summarizes the blog.
type Stats struct {
	TotalPosts      int         `json:"totalPosts"`
	PublishedPosts  int         `json:"publishedPosts"`
	DraftPosts      int         `json:"draftPosts"`
	TotalComments   int         `json:"totalComments"`
	TotalCategories int         `json:"totalCategories"`
	TotalLikes      int         `json:"totalLikes"`
	Posts           []PostStats `json:"posts"`
}

// PostStats is the engagement of one post.
type PostStats struct {
	Slug         string  `json:"slug"`
	Title        string  `json:"title"`
	Likes        int     `json:"likes"`
	Comments     int     `json:"comments"`
	CommentRatio float64 `json:"commentRatio"`
}

// Service handles post reads.
type Service struct {
	repo       Repository
	comments   Counter
	categories CategoryLister
	summarizer Summarizer
	logger     *zap.Logger
}

// New creates a post service. summarizer can be nil.
func New(repo Repository, comments Counter, categories CategoryLister, summarizer Summarizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		comments:   comments,
		categories: categories,
		summarizer: summarizer,
		logger:     logger,
	}
}

// NormalizeLimit applies DefaultLimit and rejects out of range values.
func NormalizeLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return DefaultLimit, nil
	case limit < 0 || limit > MaxLimit:
		return 0, domain.NewInvalidArgument("limit", fmt.Sprintf("must be between 1 and %d", MaxLimit))
	}
	return limit, nil
}

// Recent returns the newest published posts, continuing after the given
// publication time when set.
func (s *Service) Recent(ctx context.Context, limit int, after *time.Time) ([]domain.Post, error) {
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.List(ctx, postrepo.ListOptions{Limit: limit, After: after})
	if err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}
	return posts, nil
}

// ByCategory returns published posts of one category.
func (s *Service) ByCategory(ctx context.Context, category string, limit int, after *time.Time) ([]domain.Post, error) {
	if strings.TrimSpace(category) == "" {
		return nil, domain.NewInvalidArgument("category", "is required")
	}
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.List(ctx, postrepo.ListOptions{Category: category, Limit: limit, After: after})
	if err != nil {
		return nil, fmt.Errorf("posts in %s: %w", category, err)
	}
	return posts, nil
}

// ByAuthor returns published posts of one author.
func (s *Service) ByAuthor(ctx context.Context, authorID string, limit int) ([]domain.Post, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, domain.NewInvalidArgument("author", "is required")
	}
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.List(ctx, postrepo.ListOptions{AuthorID: authorID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("posts by %s: %w", authorID, err)
	}
	return posts, nil
}

// Popular returns the most liked published posts.
func (s *Service) Popular(ctx context.Context, limit int) ([]domain.Post, error) {
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.Popular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("popular posts: %w", err)
	}
	return posts, nil
}

// BySlug returns one post with its author. A post without excerpt gets one
// from the summarizer when configured; summarizer failures are logged and
// leave the excerpt empty.
func (s *Service) BySlug(ctx context.Context, slug string) (domain.Post, error) {
	if strings.TrimSpace(slug) == "" {
		return domain.Post{}, domain.NewInvalidArgument("slug", "is required")
	}
	p, err := s.repo.BySlug(ctx, slug)
	if err != nil {
		return domain.Post{}, fmt.Errorf("get post: %w", err)
	}

	if p.Excerpt == "" && s.summarizer != nil && p.Content != "" {
		excerpt, err := s.summarizer.Summarize(ctx, p.Title, p.Content)
		if err != nil {
			s.logger.Warn("Excerpt summarization failed", zap.String("slug", slug), zap.Error(err))
		} else {
			p.Excerpt = excerpt
		}
	}
	return p, nil
}

// Search returns published posts whose title, content, excerpt or tags
// contain term, case-insensitively. Results keep title order.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]domain.Post, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, domain.NewInvalidArgument("q", "is required")
	}
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	posts, err := s.repo.Published(ctx)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	out := make([]domain.Post, 0, limit)
	for _, p := range posts {
		if matches(&p, term) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func matches(p *domain.Post, term string) bool {
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Content), term) ||
		strings.Contains(strings.ToLower(p.Excerpt), term) {
		return true
	}
	return slices.ContainsFunc(p.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), term)
	})
}

// Stats aggregates post, comment and category counts with per-post
// engagement, most liked first.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error

	if st.TotalPosts, err = s.repo.Count(ctx, ""); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	if st.PublishedPosts, err = s.repo.Count(ctx, domain.StatusPublished); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	if st.DraftPosts, err = s.repo.Count(ctx, domain.StatusDraft); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	if st.TotalComments, err = s.comments.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	st.TotalCategories = len(cats)

	posts, err := s.repo.Engagement(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	st.Posts = make([]PostStats, 0, len(posts))
	for _, p := range posts {
		st.TotalLikes += p.LikeCount
		ps := PostStats{Slug: p.Slug, Title: p.Title, Likes: p.LikeCount, Comments: p.CommentCount}
		if p.LikeCount > 0 {
			ps.CommentRatio = float64(p.CommentCount) / float64(p.LikeCount)
		}
		st.Posts = append(st.Posts, ps)
	}
	slices.SortStableFunc(st.Posts, func(a, b PostStats) int { return b.Likes - a.Likes })

	return st, nil
}
