package query

import (
	"fmt"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/firestore"
)

// Operator is a field filter comparison.
type Operator string

// Filter operators, as named by the REST API.
const (
	OpEqual              Operator = "EQUAL"
	OpGreaterThan        Operator = "GREATER_THAN"
	OpGreaterThanOrEqual Operator = "GREATER_THAN_OR_EQUAL"
	OpLessThan           Operator = "LESS_THAN"
	OpLessThanOrEqual    Operator = "LESS_THAN_OR_EQUAL"
	OpArrayContains      Operator = "ARRAY_CONTAINS"
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "ASCENDING"
	Desc Direction = "DESCENDING"
)

// ParseDirection accepts "asc"/"desc" (any case of the REST names as well).
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "asc", "ASC", string(Asc):
		return Asc, nil
	case "desc", "DESC", "", string(Desc):
		return Desc, nil
	}
	return "", domain.NewInvalidArgument("direction", fmt.Sprintf("unknown direction %q", s))
}

type filter struct {
	field string
	op    Operator
	value any
}

type order struct {
	field     string
	direction Direction
}

type cursor struct {
	values []any
	before bool
}

// Builder accumulates a query specification. Every method mutates the
// receiver and returns it, so chained calls all refer to one builder.
type Builder struct {
	collection string
	filters    []filter
	orders     []order
	fields     []string
	limit      *int
	start, end *cursor
	one        bool
	join       bool
}

// New starts a query over a collection.
func New(collection string) *Builder {
	return &Builder{collection: collection}
}

// Collection returns the queried collection id.
func (b *Builder) Collection() string { return b.collection }

// IsOne reports whether a single record is requested.
func (b *Builder) IsOne() bool { return b.one }

// IsJoin reports whether author records are attached.
func (b *Builder) IsJoin() bool { return b.join }

func (b *Builder) where(field string, op Operator, value any) *Builder {
	b.filters = append(b.filters, filter{field: field, op: op, value: value})
	return b
}

// WhereEqualTo adds an equality filter.
func (b *Builder) WhereEqualTo(field string, value any) *Builder {
	return b.where(field, OpEqual, value)
}

// WhereGreaterThan adds a greater-than filter.
func (b *Builder) WhereGreaterThan(field string, value any) *Builder {
	return b.where(field, OpGreaterThan, value)
}

// WhereGreaterThanOrEqualTo adds a greater-than-or-equal filter.
func (b *Builder) WhereGreaterThanOrEqualTo(field string, value any) *Builder {
	return b.where(field, OpGreaterThanOrEqual, value)
}

// WhereLessThan adds a less-than filter.
func (b *Builder) WhereLessThan(field string, value any) *Builder {
	return b.where(field, OpLessThan, value)
}

// WhereLessThanOrEqualTo adds a less-than-or-equal filter.
func (b *Builder) WhereLessThanOrEqualTo(field string, value any) *Builder {
	return b.where(field, OpLessThanOrEqual, value)
}

// WhereArrayContains matches documents whose array field contains value.
func (b *Builder) WhereArrayContains(field string, value any) *Builder {
	return b.where(field, OpArrayContains, value)
}

// Where adds a filter with an explicit operator.
func (b *Builder) Where(field string, op Operator, value any) *Builder {
	return b.where(field, op, value)
}

// OrderBy appends a sort clause.
func (b *Builder) OrderBy(field string, dir Direction) *Builder {
	b.orders = append(b.orders, order{field: field, direction: dir})
	return b
}

// Limit caps the number of returned documents.
func (b *Builder) Limit(n int) *Builder {
	b.limit = &n
	return b
}

// StartAt starts the result at the given sort values, inclusive.
func (b *Builder) StartAt(values ...any) *Builder {
	b.start = &cursor{values: values, before: true}
	return b
}

// StartAfter starts the result after the given sort values.
func (b *Builder) StartAfter(values ...any) *Builder {
	b.start = &cursor{values: values, before: false}
	return b
}

// EndAt ends the result at the given sort values, inclusive.
func (b *Builder) EndAt(values ...any) *Builder {
	b.end = &cursor{values: values, before: false}
	return b
}

// EndBefore ends the result before the given sort values.
func (b *Builder) EndBefore(values ...any) *Builder {
	b.end = &cursor{values: values, before: true}
	return b
}

// Select restricts the returned fields.
func (b *Builder) Select(fields ...string) *Builder {
	b.fields = append(b.fields[:0:0], fields...)
	return b
}

// One requests a single record.
func (b *Builder) One() *Builder {
	b.one = true
	return b
}

// SetJoin attaches the author record to every result.
func (b *Builder) SetJoin() *Builder {
	b.join = true
	return b
}

// Published keeps only published posts.
func (b *Builder) Published() *Builder {
	return b.WhereEqualTo("status", string(domain.StatusPublished))
}

// PostOverview selects the post card fields and joins the author.
func (b *Builder) PostOverview() *Builder {
	return b.Select(domain.OverviewFields...).SetJoin()
}

// Build serializes the accumulated state. Unset parts are left nil so they
// never reach the wire.
func (b *Builder) Build() (*firestore.StructuredQuery, error) {
	q := &firestore.StructuredQuery{
		From: []firestore.CollectionSelector{{CollectionID: b.collection}},
	}

	if len(b.filters) > 0 {
		filters := make([]firestore.Filter, 0, len(b.filters))
		for _, f := range b.filters {
			v, err := firestore.Encode(f.value)
			if err != nil {
				return nil, fmt.Errorf("filter %s %s: %w: %w", f.field, f.op, domain.ErrUnsupportedValue, err)
			}
			filters = append(filters, firestore.Filter{FieldFilter: &firestore.FieldFilter{
				Field: firestore.FieldReference{FieldPath: f.field},
				Op:    string(f.op),
				Value: v,
			}})
		}
		q.Where = &firestore.Filter{CompositeFilter: &firestore.CompositeFilter{
			Op:      "AND",
			Filters: filters,
		}}
	}

	for _, o := range b.orders {
		q.OrderBy = append(q.OrderBy, firestore.Order{
			Field:     firestore.FieldReference{FieldPath: o.field},
			Direction: string(o.direction),
		})
	}

	if len(b.fields) > 0 {
		refs := make([]firestore.FieldReference, len(b.fields))
		for i, f := range b.fields {
			refs[i] = firestore.FieldReference{FieldPath: f}
		}
		q.Select = &firestore.Projection{Fields: refs}
	}

	if b.limit != nil {
		n := *b.limit
		q.Limit = &n
	}

	var err error
	if q.StartAt, err = encodeCursor("startAt", b.start); err != nil {
		return nil, err
	}
	if q.EndAt, err = encodeCursor("endAt", b.end); err != nil {
		return nil, err
	}
	return q, nil
}

func encodeCursor(name string, c *cursor) (*firestore.Cursor, error) {
	if c == nil {
		return nil, nil
	}
	values := make([]firestore.Value, len(c.values))
	for i, raw := range c.values {
		v, err := firestore.Encode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s value %d: %w: %w", name, i, domain.ErrUnsupportedValue, err)
		}
		values[i] = v
	}
	return &firestore.Cursor{Values: values, Before: c.before}, nil
}
