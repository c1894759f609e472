package firestore

// StructuredQuery is the runQuery request body. Optional parts are pointers
// or omitempty slices so that unset parts never reach the wire.
type StructuredQuery struct {
	From    []CollectionSelector `json:"from"`
	Where   *Filter              `json:"where,omitempty"`
	OrderBy []Order              `json:"orderBy,omitempty"`
	Select  *Projection          `json:"select,omitempty"`
	Limit   *int                 `json:"limit,omitempty"`
	StartAt *Cursor              `json:"startAt,omitempty"`
	EndAt   *Cursor              `json:"endAt,omitempty"`
}

// CollectionSelector names the queried collection.
type CollectionSelector struct {
	CollectionID string `json:"collectionId"`
}

// FieldReference points at a document field.
type FieldReference struct {
	FieldPath string `json:"fieldPath"`
}

// Filter is either a composite or a single field filter.
type Filter struct {
	CompositeFilter *CompositeFilter `json:"compositeFilter,omitempty"`
	FieldFilter     *FieldFilter     `json:"fieldFilter,omitempty"`
}

// CompositeFilter joins filters; only AND is produced.
type CompositeFilter struct {
	Op      string   `json:"op"`
	Filters []Filter `json:"filters"`
}

// FieldFilter compares a field with a value.
type FieldFilter struct {
	Field FieldReference `json:"field"`
	Op    string         `json:"op"`
	Value Value          `json:"value"`
}

// Order is one sort clause.
type Order struct {
	Field     FieldReference `json:"field"`
	Direction string         `json:"direction"`
}

// Projection restricts the returned fields.
type Projection struct {
	Fields []FieldReference `json:"fields"`
}

// Cursor is a pagination boundary.
type Cursor struct {
	Values []Value `json:"values"`
	Before bool    `json:"before"`
}

type runQueryRequest struct {
	StructuredQuery *StructuredQuery `json:"structuredQuery"`
}

// Document is a stored document as returned by the REST API.
type Document struct {
	Name       string           `json:"name,omitempty"`
	Fields     map[string]Value `json:"fields,omitempty"`
	CreateTime string           `json:"createTime,omitempty"`
	UpdateTime string           `json:"updateTime,omitempty"`
}

// ID returns the last path segment of the document name.
func (d Document) ID() string {
	for i := len(d.Name) - 1; i >= 0; i-- {
		if d.Name[i] == '/' {
			return d.Name[i+1:]
		}
	}
	return d.Name
}

// runQueryResult is one element of the runQuery response array. Entries
// without a document only carry a readTime and are skipped.
type runQueryResult struct {
	Document *Document `json:"document,omitempty"`
	ReadTime string    `json:"readTime,omitempty"`
}
