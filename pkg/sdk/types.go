package inkwell

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/inkwell/internal/domain"
	engine "github.com/kailas-cloud/inkwell/internal/outline"
	"github.com/kailas-cloud/inkwell/internal/query"
	outlineuc "github.com/kailas-cloud/inkwell/internal/usecase/outline"
	postuc "github.com/kailas-cloud/inkwell/internal/usecase/post"
)

// Collection ids.
const (
	CollectionPosts       = domain.CollectionPosts
	CollectionCategories  = domain.CollectionCategories
	CollectionComments    = domain.CollectionComments
	CollectionAdmins      = domain.CollectionAdmins
	CollectionSubscribers = domain.CollectionSubscribers
)

// Record is one decoded document: field name to native value.
type Record = domain.Record

// Blog entities.
type (
	Post      = domain.Post
	Author    = domain.Author
	Category  = domain.Category
	Comment   = domain.Comment
	Stats     = postuc.Stats
	PostStats = postuc.PostStats
)

// Operator is a field filter comparison.
type Operator = query.Operator

// Filter operators.
const (
	OpEqual              = query.OpEqual
	OpGreaterThan        = query.OpGreaterThan
	OpGreaterThanOrEqual = query.OpGreaterThanOrEqual
	OpLessThan           = query.OpLessThan
	OpLessThanOrEqual    = query.OpLessThanOrEqual
	OpArrayContains      = query.OpArrayContains
)

// Direction is a sort direction.
type Direction = query.Direction

// Sort directions.
const (
	Asc  = query.Asc
	Desc = query.Desc
)

// Format names a content representation for outlines.
type Format = outlineuc.Format

// Outline content formats.
const (
	FormatHTML     = outlineuc.FormatHTML
	FormatMarkdown = outlineuc.FormatMarkdown
	FormatEditor   = outlineuc.FormatEditor
)

// OutlineResult is prepared content with its outline.
type OutlineResult = outlineuc.Result

// Heading and OutlineItem describe an outline.
type (
	Heading     = engine.Heading
	OutlineItem = engine.Item
)

// Summarizer writes a short excerpt for a post.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

// Decode maps records onto T using `firestore` field tags.
func Decode[T any](records []Record) ([]T, error) {
	out, err := domain.DecodeRecords[T](records)
	if err != nil {
		return nil, fmt.Errorf("inkwell: %w", err)
	}
	return out, nil
}

// DecodeOne maps a single record onto T.
func DecodeOne[T any](r Record) (T, error) {
	out, err := domain.DecodeRecord[T](r)
	if err != nil {
		return out, fmt.Errorf("inkwell: %w", err)
	}
	return out, nil
}
