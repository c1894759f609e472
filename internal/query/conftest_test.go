package query

import (
	"context"
	"strings"
	"sync"

	"github.com/kailas-cloud/inkwell/internal/firestore"
)

// fakeRunner answers queries per collection and records every call.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []*firestore.StructuredQuery
	byColl  map[string][]firestore.Document
	authors map[string]firestore.Document
	err     error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		byColl:  make(map[string][]firestore.Document),
		authors: make(map[string]firestore.Document),
	}
}

func (f *fakeRunner) RunQuery(_ context.Context, q *firestore.StructuredQuery) ([]firestore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}

	coll := q.From[0].CollectionID
	if coll == "admins" && q.Where != nil {
		id := q.Where.CompositeFilter.Filters[0].FieldFilter.Value.String
		if d, ok := f.authors[id]; ok {
			return []firestore.Document{d}, nil
		}
		return nil, nil
	}
	return f.byColl[coll], nil
}

func (f *fakeRunner) callsTo(coll string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, q := range f.calls {
		if q.From[0].CollectionID == coll {
			n++
		}
	}
	return n
}

func doc(path string, fields map[string]firestore.Value) firestore.Document {
	return firestore.Document{
		Name:   "projects/p/databases/(default)/documents/" + strings.TrimPrefix(path, "/"),
		Fields: fields,
	}
}

func post(slug, authorID string) firestore.Document {
	fields := map[string]firestore.Value{
		"slug":  firestore.StringValue(slug),
		"title": firestore.StringValue(strings.ToUpper(slug)),
	}
	if authorID != "" {
		fields["authorId"] = firestore.StringValue(authorID)
	}
	return doc("posts/"+slug, fields)
}

func author(id, name string) firestore.Document {
	return doc("admins/"+id, map[string]firestore.Value{
		"id":   firestore.StringValue(id),
		"name": firestore.StringValue(name),
	})
}
