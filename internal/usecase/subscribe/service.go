package subscribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// Repository stores subscribers.
type Repository interface {
	Add(ctx context.Context, email string) error
}

// Service handles newsletter subscriptions.
type Service struct {
	repo Repository
}

// New creates a subscription service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Subscribe validates and stores an address. Subscribing twice overwrites
// the earlier entry.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !domain.ValidEmail(email) {
		return domain.NewInvalidArgument("email", "must be a valid address")
	}
	if err := s.repo.Add(ctx, email); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}
