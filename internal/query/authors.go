package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/domain"
)

// AuthorLookup resolves authors with a single-record query on the admins
// collection.
type AuthorLookup struct {
	exec *Executor
}

// NewAuthorLookup creates a lookup that queries through runner.
func NewAuthorLookup(runner Runner, logger *zap.Logger) *AuthorLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &AuthorLookup{}
	// The inner executor never joins, so it does not need a resolver of its own.
	l.exec = &Executor{runner: runner, authors: l, logger: logger}
	return l
}

// ResolveAuthor implements AuthorResolver.
func (l *AuthorLookup) ResolveAuthor(ctx context.Context, id string) (domain.Record, error) {
	return l.exec.First(ctx, New(domain.CollectionAdmins).WhereEqualTo("id", id))
}
