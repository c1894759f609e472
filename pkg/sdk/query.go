package inkwell

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/inkwell/internal/query"
)

// Query is a fluent query against one collection. Every method mutates the
// receiver and returns it.
type Query struct {
	b    *query.Builder
	exec queryExecutor
	obs  *observer
}

// Where adds a field filter.
func (q *Query) Where(field string, op Operator, value any) *Query {
	q.b.Where(field, op, value)
	return q
}

// WhereEqualTo adds an equality filter.
func (q *Query) WhereEqualTo(field string, value any) *Query {
	q.b.WhereEqualTo(field, value)
	return q
}

// WhereGreaterThan adds a > filter.
func (q *Query) WhereGreaterThan(field string, value any) *Query {
	q.b.WhereGreaterThan(field, value)
	return q
}

// WhereLessThan adds a < filter.
func (q *Query) WhereLessThan(field string, value any) *Query {
	q.b.WhereLessThan(field, value)
	return q
}

// WhereArrayContains matches array fields holding value.
func (q *Query) WhereArrayContains(field string, value any) *Query {
	q.b.WhereArrayContains(field, value)
	return q
}

// OrderBy appends a sort key.
func (q *Query) OrderBy(field string, dir Direction) *Query {
	q.b.OrderBy(field, dir)
	return q
}

// Limit caps the number of results.
func (q *Query) Limit(n int) *Query {
	q.b.Limit(n)
	return q
}

// StartAfter continues after the given order-by values.
func (q *Query) StartAfter(values ...any) *Query {
	q.b.StartAfter(values...)
	return q
}

// Select projects the given fields.
func (q *Query) Select(fields ...string) *Query {
	q.b.Select(fields...)
	return q
}

// Published restricts to published posts.
func (q *Query) Published() *Query {
	q.b.Published()
	return q
}

// Overview projects the post card fields.
func (q *Query) Overview() *Query {
	q.b.PostOverview()
	return q
}

// One expects exactly one result.
func (q *Query) One() *Query {
	q.b.One()
	return q
}

// Join attaches each record's author under "author".
func (q *Query) Join() *Query {
	q.b.SetJoin()
	return q
}

// Get runs the query.
func (q *Query) Get(ctx context.Context) (_ []Record, err error) {
	defer func(start time.Time) { q.obs.observe("query.get", q.b.Collection(), start, err) }(time.Now())
	recs, err := q.exec.Get(ctx, q.b)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.b.Collection(), err)
	}
	q.obs.records(q.b.Collection(), len(recs))
	return recs, nil
}

// First runs the query and returns its first record, or ErrNotFound.
func (q *Query) First(ctx context.Context) (_ Record, err error) {
	defer func(start time.Time) { q.obs.observe("query.first", q.b.Collection(), start, err) }(time.Now())
	rec, err := q.exec.First(ctx, q.b)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.b.Collection(), err)
	}
	return rec, nil
}

// Count runs the query and returns the number of matches.
func (q *Query) Count(ctx context.Context) (_ int, err error) {
	defer func(start time.Time) { q.obs.observe("query.count", q.b.Collection(), start, err) }(time.Now())
	n, err := q.exec.Count(ctx, q.b)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", q.b.Collection(), err)
	}
	return n, nil
}

// GetAs runs q and decodes the records onto T.
func GetAs[T any](ctx context.Context, q *Query) ([]T, error) {
	recs, err := q.Get(ctx)
	if err != nil {
		return nil, err
	}
	return Decode[T](recs)
}

// FirstAs runs q and decodes its first record onto T.
func FirstAs[T any](ctx context.Context, q *Query) (T, error) {
	rec, err := q.First(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeOne[T](rec)
}
