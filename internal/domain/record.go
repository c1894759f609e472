package domain

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Record is one decoded document: field name to native value.
type Record map[string]any

// String returns the string field or "" when absent or of another type.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// DecodeRecord maps a record onto a struct using `firestore` field tags.
// Timestamps stored as RFC3339 strings are accepted as well.
func DecodeRecord[T any](r Record) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "firestore",
		Result:     &out,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return out, fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(r)); err != nil {
		return out, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}

// DecodeRecords decodes every record, failing on the first error.
func DecodeRecords[T any](rs []Record) ([]T, error) {
	out := make([]T, 0, len(rs))
	for i, r := range rs {
		v, err := DecodeRecord[T](r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
