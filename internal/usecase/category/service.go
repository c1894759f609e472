package category

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// Repository lists categories.
type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// Service handles category reads.
type Service struct {
	repo Repository
}

// New creates a category service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}
