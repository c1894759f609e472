package query

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/firestore"
	"github.com/kailas-cloud/inkwell/internal/metrics"
)

// Runner executes a structured query against the document store.
type Runner interface {
	RunQuery(ctx context.Context, q *firestore.StructuredQuery) ([]firestore.Document, error)
}

// AuthorResolver fetches one author record by id. A missing author is
// reported with domain.ErrNotFound.
type AuthorResolver interface {
	ResolveAuthor(ctx context.Context, id string) (domain.Record, error)
}

// Option configures an Executor.
type Option func(*Executor)

// WithAuthorResolver replaces the default admins lookup used by joins.
func WithAuthorResolver(r AuthorResolver) Option {
	return func(e *Executor) { e.authors = r }
}

// Executor runs builders and decodes their results.
type Executor struct {
	runner  Runner
	authors AuthorResolver
	logger  *zap.Logger
}

// NewExecutor creates an executor over a runner.
func NewExecutor(runner Runner, logger *zap.Logger, opts ...Option) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Executor{runner: runner, logger: logger}
	for _, o := range opts {
		o(e)
	}
	if e.authors == nil {
		e.authors = NewAuthorLookup(runner, logger)
	}
	return e
}

// Get runs the query and returns the decoded records in endpoint order.
// With One set the result has exactly one record or fails with
// domain.ErrNotFound. With SetJoin every record carrying an authorId gets
// its author under the "author" key.
func (e *Executor) Get(ctx context.Context, b *Builder) ([]domain.Record, error) {
	q, err := b.Build()
	if err != nil {
		return nil, err
	}

	docs, err := e.runner.RunQuery(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", b.collection, MapError(err))
	}

	if b.one {
		if len(docs) == 0 {
			return nil, fmt.Errorf("query %s: %w", b.collection, domain.ErrNotFound)
		}
		docs = docs[:1]
	}

	records := make([]domain.Record, len(docs))
	for i := range docs {
		records[i] = decodeDocument(e.logger, b.collection, &docs[i])
	}

	if b.join {
		if err := e.join(ctx, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// First runs a single-record query.
func (e *Executor) First(ctx context.Context, b *Builder) (domain.Record, error) {
	records, err := e.Get(ctx, b.One())
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// Count returns the number of matched records. It fetches them; there is no
// server side aggregation.
func (e *Executor) Count(ctx context.Context, b *Builder) (int, error) {
	records, err := e.Get(ctx, b)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// join resolves each distinct authorId once and shares the fetched record
// between all records with that id.
func (e *Executor) join(ctx context.Context, records []domain.Record) error {
	authors := make(map[string]domain.Record)
	missing := make(map[string]bool)

	for _, r := range records {
		id := r.String("authorId")
		if id == "" {
			continue
		}
		if a, ok := authors[id]; ok {
			r["author"] = a
			continue
		}
		if missing[id] {
			continue
		}

		a, err := e.authors.ResolveAuthor(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				e.logger.Warn("Author not found for join", zap.String("author_id", id))
				missing[id] = true
				continue
			}
			return fmt.Errorf("resolve author %s: %w", id, err)
		}
		authors[id] = a
		r["author"] = a
	}
	return nil
}

func decodeDocument(logger *zap.Logger, collection string, doc *firestore.Document) domain.Record {
	return firestore.DecodeFields(doc.Fields, func(field, tag string) {
		metrics.DecodeWarningsTotal.Inc()
		logger.Warn("Dropping field with unknown value type",
			zap.String("collection", collection),
			zap.String("document", doc.ID()),
			zap.String("field", field),
			zap.String("tag", tag),
		)
	})
}

// MapError attaches the domain sentinel while keeping the transport error
// reachable through errors.As.
func MapError(err error) error {
	switch {
	case errors.Is(err, firestore.ErrNotFound):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.Is(err, firestore.ErrQueryFailed):
		return fmt.Errorf("%w: %w", domain.ErrQueryFailed, err)
	case errors.Is(err, firestore.ErrUnsupportedValue):
		return fmt.Errorf("%w: %w", domain.ErrUnsupportedValue, err)
	}
	return err
}
