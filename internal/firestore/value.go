package firestore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// Kind is the wire tag of a typed value.
type Kind uint8

// Value kinds understood by the codec.
const (
	KindUnknown Kind = iota
	KindNull
	KindString
	KindInteger
	KindDouble
	KindBoolean
	KindTimestamp
	KindArray
	KindMap
)

var kindTags = map[Kind]string{
	KindNull:      "nullValue",
	KindString:    "stringValue",
	KindInteger:   "integerValue",
	KindDouble:    "doubleValue",
	KindBoolean:   "booleanValue",
	KindTimestamp: "timestampValue",
	KindArray:     "arrayValue",
	KindMap:       "mapValue",
}

var tagKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTags))
	for k, tag := range kindTags {
		m[tag] = k
	}
	return m
}()

// String returns the wire tag of the kind.
func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "unknown"
}

// Value is a Firestore typed value: exactly one of the fields is meaningful,
// selected by Kind.
type Value struct {
	Kind    Kind
	String  string
	Integer int64
	Double  float64
	Boolean bool
	Time    time.Time
	Array   []Value
	Map     map[string]Value

	// Tag holds the wire tag when Kind is KindUnknown.
	Tag string
}

// Constructors for the common kinds.

// StringValue returns a string value.
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }

// IntegerValue returns an integer value.
func IntegerValue(i int64) Value { return Value{Kind: KindInteger, Integer: i} }

// DoubleValue returns a double value.
func DoubleValue(f float64) Value { return Value{Kind: KindDouble, Double: f} }

// BooleanValue returns a boolean value.
func BooleanValue(b bool) Value { return Value{Kind: KindBoolean, Boolean: b} }

// TimestampValue returns a timestamp value normalized to UTC.
func TimestampValue(t time.Time) Value { return Value{Kind: KindTimestamp, Time: t.UTC()} }

// NullValue returns the null value.
func NullValue() Value { return Value{Kind: KindNull} }

// ArrayValue returns an array value.
func ArrayValue(vs ...Value) Value { return Value{Kind: KindArray, Array: vs} }

// MapValue returns a map value.
func MapValue(fields map[string]Value) Value { return Value{Kind: KindMap, Map: fields} }

type arrayWire struct {
	Values []Value `json:"values,omitempty"`
}

type mapWire struct {
	Fields map[string]Value `json:"fields,omitempty"`
}

// MarshalJSON writes the single-key wire object for the value.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.Kind {
	case KindNull:
		payload = nil
	case KindString:
		payload = v.String
	case KindInteger:
		payload = strconv.FormatInt(v.Integer, 10)
	case KindDouble:
		switch {
		case math.IsNaN(v.Double):
			payload = "NaN"
		case math.IsInf(v.Double, 1):
			payload = "Infinity"
		case math.IsInf(v.Double, -1):
			payload = "-Infinity"
		default:
			payload = v.Double
		}
	case KindBoolean:
		payload = v.Boolean
	case KindTimestamp:
		payload = v.Time.UTC().Format(time.RFC3339Nano)
	case KindArray:
		payload = arrayWire{Values: v.Array}
	case KindMap:
		payload = mapWire{Fields: v.Map}
	default:
		return nil, fmt.Errorf("marshal value: %w: tag %q", ErrUnsupportedValue, v.Tag)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", v.Kind, err)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(strconv.Quote(v.Kind.String()))
	buf.WriteByte(':')
	buf.Write(body)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a wire object. A tag the codec does not know is kept as
// KindUnknown so that record decoding can drop it without failing.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal value: %w", err)
	}

	*v = Value{}
	for tag, body := range raw {
		kind, ok := tagKinds[tag]
		if !ok {
			continue
		}
		v.Kind = kind
		return v.unmarshalPayload(body)
	}

	// No known tag: remember the first one for the warning.
	tags := make([]string, 0, len(raw))
	for tag := range raw {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	if len(tags) > 0 {
		v.Tag = tags[0]
	}
	v.Kind = KindUnknown
	return nil
}

func (v *Value) unmarshalPayload(body json.RawMessage) error {
	switch v.Kind {
	case KindNull:
		return nil
	case KindString:
		return json.Unmarshal(body, &v.String)
	case KindInteger:
		return unmarshalInteger(body, &v.Integer)
	case KindDouble:
		return unmarshalDouble(body, &v.Double)
	case KindBoolean:
		return json.Unmarshal(body, &v.Boolean)
	case KindTimestamp:
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return fmt.Errorf("timestampValue: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("timestampValue: %w", err)
		}
		v.Time = t.UTC()
		return nil
	case KindArray:
		var w arrayWire
		if err := json.Unmarshal(body, &w); err != nil {
			return fmt.Errorf("arrayValue: %w", err)
		}
		v.Array = w.Values
		return nil
	case KindMap:
		var w mapWire
		if err := json.Unmarshal(body, &w); err != nil {
			return fmt.Errorf("mapValue: %w", err)
		}
		v.Map = w.Fields
		return nil
	}
	return nil
}

// unmarshalInteger accepts both the REST form ("42") and a bare number.
func unmarshalInteger(body json.RawMessage, dst *int64) error {
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("integerValue: %w", err)
		}
		*dst = i
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("integerValue: %w", err)
	}
	return nil
}

// unmarshalDouble accepts numbers and the special strings NaN/Infinity.
func unmarshalDouble(body json.RawMessage, dst *float64) error {
	if err := json.Unmarshal(body, dst); err == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(body, &s); err != nil {
		return fmt.Errorf("doubleValue: %w", err)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("doubleValue: %w", err)
	}
	*dst = f
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

// Encode converts a native Go value into its typed wire form.
// Integers of every width become integerValue, floats become doubleValue.
func Encode(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BooleanValue(x), nil
	case int:
		return IntegerValue(int64(x)), nil
	case int64:
		return IntegerValue(x), nil
	case float64:
		return DoubleValue(x), nil
	case time.Time:
		return TimestampValue(x), nil
	case *time.Time:
		if x == nil {
			return NullValue(), nil
		}
		return TimestampValue(*x), nil
	}
	return encodeReflect(reflect.ValueOf(v))
}

func encodeReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NullValue(), nil
		}
		return encodeReflect(rv.Elem())
	case reflect.String:
		return StringValue(rv.String()), nil
	case reflect.Bool:
		return BooleanValue(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntegerValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return Value{}, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, u)
		}
		return IntegerValue(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return DoubleValue(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return ArrayValue(), nil
		}
		out := make([]Value, rv.Len())
		for i := range out {
			ev, err := encodeReflect(rv.Index(i))
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = ev
		}
		return ArrayValue(out...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: map key %s", ErrUnsupportedValue, rv.Type().Key())
		}
		out := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := encodeReflect(iter.Value())
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", iter.Key().String(), err)
			}
			out[iter.Key().String()] = ev
		}
		return MapValue(out), nil
	case reflect.Struct:
		if rv.Type() == timeType {
			return TimestampValue(rv.Interface().(time.Time)), nil //nolint:forcetypeassert // checked above
		}
		if v, ok := rv.Interface().(Value); ok {
			return v, nil
		}
	case reflect.Invalid:
		return NullValue(), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedValue, rv.Type())
}

// Decode converts a typed value to its native form. It reports false for a
// tag the codec does not understand.
func Decode(v Value) (any, bool) {
	switch v.Kind {
	case KindNull:
		return nil, true
	case KindString:
		return v.String, true
	case KindInteger:
		return v.Integer, true
	case KindDouble:
		return v.Double, true
	case KindBoolean:
		return v.Boolean, true
	case KindTimestamp:
		return v.Time, true
	case KindArray:
		out := make([]any, 0, len(v.Array))
		for _, el := range v.Array {
			if native, ok := Decode(el); ok {
				out = append(out, native)
			}
		}
		return out, true
	case KindMap:
		return DecodeFields(v.Map, nil), true
	default:
		return nil, false
	}
}

// WarnFunc receives fields dropped during decoding because of an unknown tag.
type WarnFunc func(field, tag string)

// DecodeFields decodes a document's fields into a plain record. Fields with an
// unknown tag are reported through warn and left out of the result.
func DecodeFields(fields map[string]Value, warn WarnFunc) map[string]any {
	out := make(map[string]any, len(fields))
	for name, v := range fields {
		if v.Kind == KindMap {
			out[name] = DecodeFields(v.Map, prefixed(warn, name))
			continue
		}
		if v.Kind == KindArray {
			out[name] = decodeArray(v.Array, prefixed(warn, name))
			continue
		}
		native, ok := Decode(v)
		if !ok {
			if warn != nil {
				warn(name, v.Tag)
			}
			continue
		}
		out[name] = native
	}
	return out
}

func decodeArray(values []Value, warn WarnFunc) []any {
	out := make([]any, 0, len(values))
	for i, el := range values {
		switch el.Kind {
		case KindMap:
			out = append(out, DecodeFields(el.Map, prefixed(warn, strconv.Itoa(i))))
		case KindArray:
			out = append(out, decodeArray(el.Array, prefixed(warn, strconv.Itoa(i))))
		default:
			native, ok := Decode(el)
			if !ok {
				if warn != nil {
					warn(strconv.Itoa(i), el.Tag)
				}
				continue
			}
			out = append(out, native)
		}
	}
	return out
}

func prefixed(warn WarnFunc, prefix string) WarnFunc {
	if warn == nil {
		return nil
	}
	return func(field, tag string) { warn(prefix+"."+field, tag) }
}
