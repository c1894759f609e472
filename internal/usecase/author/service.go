package author

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// Repository loads authors.
type Repository interface {
	Get(ctx context.Context, id string) (domain.Author, error)
}

// Service handles author reads.
type Service struct {
	repo Repository
}

// New creates an author service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one author.
func (s *Service) Get(ctx context.Context, id string) (domain.Author, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Author{}, domain.NewInvalidArgument("id", "is required")
	}
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Author{}, fmt.Errorf("get author: %w", err)
	}
	return a, nil
}
