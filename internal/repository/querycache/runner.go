package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/db"
	"github.com/kailas-cloud/inkwell/internal/firestore"
	"github.com/kailas-cloud/inkwell/internal/query"
)

const cacheKeyPrefix = "inkwell:query:"

// store is the consumer interface for the query cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Compile-time check: CachedRunner is a query.Runner.
var _ query.Runner = (*CachedRunner)(nil)

// CachedRunner caches runQuery responses in a key-value store.
type CachedRunner struct {
	inner      query.Runner
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner query.Runner,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedRunner {
	return &CachedRunner{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// RunQuery returns a cached response or calls the inner runner.
// Cache failures never fail the query.
func (c *CachedRunner) RunQuery(ctx context.Context, q *firestore.StructuredQuery) ([]firestore.Document, error) {
	key, err := c.cacheKey(q)
	if err != nil {
		// Unserializable query: let the inner runner report it.
		return c.inner.RunQuery(ctx, q)
	}

	if docs, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return docs, nil
	}

	c.incCache("miss")

	docs, err := c.inner.RunQuery(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}

	c.putToCache(ctx, key, docs)
	return docs, nil
}

func (c *CachedRunner) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedRunner) cacheKey(q *firestore.StructuredQuery) (string, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(h[:]), nil
}

func (c *CachedRunner) getFromCache(ctx context.Context, key string) ([]firestore.Document, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached query", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var docs []firestore.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		c.logger.Warn("Failed to parse cached query", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return docs, true
}

func (c *CachedRunner) putToCache(ctx context.Context, key string, docs []firestore.Document) {
	if docs == nil {
		docs = []firestore.Document{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		// Documents with unknown value tags cannot be re-encoded; skip caching them.
		c.logger.Debug("Query response not cacheable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache query", zap.String("key", key), zap.Error(err))
	}
}
