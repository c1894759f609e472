package comment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// Service handles reader comments.
type Service struct {
	repo  Repository
	posts PostFinder
	now   func() time.Time
	newID func() string
}

// New creates a comment service.
func New(repo Repository, posts PostFinder) *Service {
	return &Service{
		repo:  repo,
		posts: posts,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// ForPost returns the comments of a post, oldest first.
func (s *Service) ForPost(ctx context.Context, slug string) ([]domain.Comment, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, domain.NewInvalidArgument("slug", "is required")
	}
	comments, err := s.repo.ForPost(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Add validates and stores a new comment on an existing post. The id and
// timestamps are assigned here.
func (s *Service) Add(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	c.PostID = strings.TrimSpace(c.PostID)
	c.AuthorName = strings.TrimSpace(c.AuthorName)
	if err := c.Validate(); err != nil {
		return domain.Comment{}, err
	}
	if _, err := s.posts.BySlug(ctx, c.PostID); err != nil {
		return domain.Comment{}, fmt.Errorf("add comment: %w", err)
	}

	now := s.now().UTC()
	c.ID = s.newID()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Likes = 0

	if err := s.repo.Save(ctx, &c); err != nil {
		return domain.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	return c, nil
}
