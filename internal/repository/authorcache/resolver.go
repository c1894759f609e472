package authorcache

import (
	"context"
	"fmt"
	"time"

	"github.com/maypok86/otter"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/query"
)

// Compile-time check: Resolver is a query.AuthorResolver.
var _ query.AuthorResolver = (*Resolver)(nil)

// Resolver keeps recently joined authors in process memory.
// Missing authors are not cached.
type Resolver struct {
	inner      query.AuthorResolver
	cache      otter.Cache[string, domain.Record]
	cacheTotal *prometheus.CounterVec
}

// New creates a caching author resolver holding at most capacity authors
// for ttl each.
func New(inner query.AuthorResolver, capacity int, ttl time.Duration, cacheTotal *prometheus.CounterVec) (*Resolver, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("author cache capacity must be positive, got %d", capacity)
	}
	cache, err := otter.MustBuilder[string, domain.Record](capacity).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build author cache: %w", err)
	}
	return &Resolver{inner: inner, cache: cache, cacheTotal: cacheTotal}, nil
}

// ResolveAuthor returns the cached author or asks the inner resolver.
func (r *Resolver) ResolveAuthor(ctx context.Context, id string) (domain.Record, error) {
	if a, ok := r.cache.Get(id); ok {
		r.incCache("hit")
		return a, nil
	}
	r.incCache("miss")

	a, err := r.inner.ResolveAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(id, a)
	return a, nil
}

// Invalidate drops one author, e.g. after a profile edit.
func (r *Resolver) Invalidate(id string) {
	r.cache.Delete(id)
}

// Close releases the cache.
func (r *Resolver) Close() {
	r.cache.Close()
}

func (r *Resolver) incCache(result string) {
	if r.cacheTotal != nil {
		r.cacheTotal.WithLabelValues(result).Inc()
	}
}
