package querycache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/firestore"
)

func postsQuery(slug string) *firestore.StructuredQuery {
	return &firestore.StructuredQuery{
		From: []firestore.CollectionSelector{{CollectionID: "posts"}},
		Where: &firestore.Filter{FieldFilter: &firestore.FieldFilter{
			Field: firestore.FieldReference{FieldPath: "slug"},
			Op:    "EQUAL",
			Value: firestore.StringValue(slug),
		}},
	}
}

func testDocs() []firestore.Document {
	return []firestore.Document{{
		Name:   "projects/p/databases/(default)/documents/posts/hello",
		Fields: map[string]firestore.Value{"title": firestore.StringValue("Hello"), "likes": firestore.IntegerValue(3)},
	}}
}

func TestRunQuery_SecondIdenticalQueryIsServedFromCache(t *testing.T) {
	inner := &mockRunner{docs: testDocs()}
	cr, ms := newTestRunner(t, inner)
	ctx := context.Background()

	first, err := cr.RunQuery(ctx, postsQuery("hello"))
	if err != nil {
		t.Fatalf("first RunQuery: %v", err)
	}
	second, err := cr.RunQuery(ctx, postsQuery("hello"))
	if err != nil {
		t.Fatalf("second RunQuery: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("expected one upstream call, got %d", inner.calls)
	}
	if len(second) != 1 || second[0].Fields["likes"].Integer != 3 || second[0].ID() != first[0].ID() {
		t.Errorf("cached response differs: %+v", second)
	}
	for _, ttl := range ms.ttls {
		if ttl != time.Minute {
			t.Errorf("ttl = %v, want 1m", ttl)
		}
	}
}

func TestRunQuery_DifferentQueriesUseDifferentKeys(t *testing.T) {
	inner := &mockRunner{docs: testDocs()}
	cr, ms := newTestRunner(t, inner)
	ctx := context.Background()

	_, _ = cr.RunQuery(ctx, postsQuery("a"))
	_, _ = cr.RunQuery(ctx, postsQuery("b"))

	if inner.calls != 2 {
		t.Errorf("expected two upstream calls, got %d", inner.calls)
	}
	if len(ms.data) != 2 {
		t.Errorf("expected two cache entries, got %d", len(ms.data))
	}
}

func TestRunQuery_EmptyResultIsCached(t *testing.T) {
	inner := &mockRunner{}
	cr, _ := newTestRunner(t, inner)
	ctx := context.Background()

	for range 2 {
		docs, err := cr.RunQuery(ctx, postsQuery("none"))
		if err != nil {
			t.Fatalf("RunQuery: %v", err)
		}
		if len(docs) != 0 {
			t.Fatalf("expected no docs, got %d", len(docs))
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected one upstream call, got %d", inner.calls)
	}
}

func TestRunQuery_InnerErrorIsNotCached(t *testing.T) {
	inner := &mockRunner{err: &firestore.QueryFailedError{Status: 500}}
	cr, ms := newTestRunner(t, inner)

	_, err := cr.RunQuery(context.Background(), postsQuery("x"))
	if !errors.Is(err, firestore.ErrQueryFailed) {
		t.Fatalf("expected ErrQueryFailed, got %v", err)
	}
	if len(ms.data) != 0 {
		t.Error("errors must not be cached")
	}
}

func TestRunQuery_StoreFailuresAreIgnored(t *testing.T) {
	inner := &mockRunner{docs: testDocs()}
	cr, ms := newTestRunner(t, inner)
	ms.getErr = errors.New("redis down")
	ms.setErr = errors.New("redis down")

	docs, err := cr.RunQuery(context.Background(), postsQuery("hello"))
	if err != nil {
		t.Fatalf("cache failure must not fail the query: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected upstream docs, got %d", len(docs))
	}
}

func TestRunQuery_CorruptEntryFallsThrough(t *testing.T) {
	inner := &mockRunner{docs: testDocs()}
	cr, ms := newTestRunner(t, inner)

	key, err := cr.cacheKey(postsQuery("hello"))
	if err != nil {
		t.Fatalf("cacheKey: %v", err)
	}
	ms.data[key] = []byte("{not json")

	if _, err := cr.RunQuery(context.Background(), postsQuery("hello")); err != nil {
		t.Fatalf("RunQuery: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected upstream call on corrupt entry, got %d", inner.calls)
	}
}

func TestRunQuery_CountsHitsAndMisses(t *testing.T) {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_query_cache_total"}, []string{"result"})
	inner := &mockRunner{docs: testDocs()}
	cr := New(inner, newMemStore(), time.Minute, total, zap.NewNop())
	ctx := context.Background()

	_, _ = cr.RunQuery(ctx, postsQuery("hello"))
	_, _ = cr.RunQuery(ctx, postsQuery("hello"))

	if got := testutil.ToFloat64(total.WithLabelValues("miss")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(total.WithLabelValues("hit")); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
}
