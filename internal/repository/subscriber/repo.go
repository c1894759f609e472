package subscriber

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/firestore"
	"github.com/kailas-cloud/inkwell/internal/query"
)

// patcher writes documents.
type patcher interface {
	PatchDocument(ctx context.Context, collection, id string, fields map[string]firestore.Value) (firestore.Document, error)
}

// Repo implements usecase/subscribe.Repository.
type Repo struct {
	patcher patcher
	now     func() time.Time
}

// New creates a subscriber repository.
func New(p patcher) *Repo {
	return &Repo{patcher: p, now: time.Now}
}

// Add stores the subscriber keyed by email. Subscribing twice overwrites
// the first record.
func (r *Repo) Add(ctx context.Context, email string) error {
	fields := map[string]firestore.Value{
		"email":        firestore.StringValue(email),
		"subscribedAt": firestore.TimestampValue(r.now()),
	}
	if _, err := r.patcher.PatchDocument(ctx, domain.CollectionSubscribers, email, fields); err != nil {
		return fmt.Errorf("add subscriber: %w", query.MapError(err))
	}
	return nil
}
