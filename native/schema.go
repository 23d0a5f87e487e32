package native

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tingold/orb-gdal/binding"
)

// acceptFunc decides how a driver stores a requested field. It returns the
// definition actually stored or an error.
type acceptFunc func(def binding.FieldDefn, approxOK bool) (binding.FieldDefn, error)

func acceptAll(def binding.FieldDefn, _ bool) (binding.FieldDefn, error) {
	return def, nil
}

// Schema is a layer's ordered field list.
type Schema struct {
	fields []binding.FieldDefn
	accept acceptFunc
	check  func() error
}

func newSchema(accept acceptFunc, check func() error) *Schema {
	if accept == nil {
		accept = acceptAll
	}
	return &Schema{accept: accept, check: check}
}

// Count implements binding.Indexed.
func (s *Schema) Count() int { return len(s.fields) }

// Get implements binding.Indexed. i is zero-based.
func (s *Schema) Get(i int) (binding.FieldDefn, error) {
	if i < 0 || i >= len(s.fields) {
		return binding.FieldDefn{}, fmt.Errorf("%w: field %d", ErrOutOfRange, i)
	}
	return s.fields[i], nil
}

// Index returns the position of the named field, or -1.
func (s *Schema) Index(name string) int {
	for i, f := range s.fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// Add implements binding.FieldSchema. Names are unique, case-insensitively.
func (s *Schema) Add(def binding.FieldDefn, approxOK bool) error {
	if s.check != nil {
		if err := s.check(); err != nil {
			return err
		}
	}
	if def.Name == "" {
		return fmt.Errorf("%w: empty field name", ErrInvalidData)
	}
	if s.Index(def.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrFieldExists, def.Name)
	}
	stored, err := s.accept(def, approxOK)
	if err != nil {
		return err
	}
	s.fields = append(s.fields, stored)
	return nil
}

// Fields returns a copy of the field definitions.
func (s *Schema) Fields() []binding.FieldDefn {
	return append([]binding.FieldDefn(nil), s.fields...)
}

// coerce converts v to the Go representation of ft: int64, float64,
// string, time.Time, []byte, []int64, []float64 or []string. nil stays nil.
func coerce(ft binding.FieldType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch ft {
	case binding.FieldTypeInteger:
		return toInt64(v)
	case binding.FieldTypeReal:
		return toFloat64(v)
	case binding.FieldTypeString:
		return toString(v), nil
	case binding.FieldTypeDateTime:
		return toTime(v)
	case binding.FieldTypeBinary:
		return toBytes(v)
	case binding.FieldTypeIntegerList:
		return toList(v, toInt64)
	case binding.FieldTypeRealList:
		return toList(v, toFloat64)
	case binding.FieldTypeStringList:
		return toList(v, func(x any) (string, error) { return toString(x), nil })
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, ft)
	}
}

func conversionError(v any, ft string) error {
	return fmt.Errorf("%w: cannot store %T as %s", ErrInvalidData, v, ft)
}

func toInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint:
		return int64(val), nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		return int64(val), nil
	case float32:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		if f, err := val.Float64(); err == nil {
			return int64(f), nil
		}
	case string:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i, nil
		}
	}
	return 0, conversionError(v, "Integer")
}

func toFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float32:
		return float64(val), nil
	case float64:
		return val, nil
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f, nil
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f, nil
		}
	default:
		if i, err := toInt64(v); err == nil {
			return float64(i), nil
		}
	}
	return 0, conversionError(v, "Real")
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return base64.StdEncoding.EncodeToString(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	default:
		// For other types, use JSON encoding
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func toTime(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case *time.Time:
		if val != nil {
			return *val, nil
		}
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006/01/02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, conversionError(v, "DateTime")
}

func toBytes(v any) ([]byte, error) {
	switch val := v.(type) {
	case []byte:
		return val, nil
	case json.RawMessage:
		return []byte(val), nil
	case string:
		if b, err := base64.StdEncoding.DecodeString(val); err == nil {
			return b, nil
		}
	}
	return nil, conversionError(v, "Binary")
}

func toList[T any](v any, conv func(any) (T, error)) ([]T, error) {
	var items []any
	switch val := v.(type) {
	case []any:
		items = val
	case []T:
		return append([]T(nil), val...), nil
	case []int:
		for _, x := range val {
			items = append(items, x)
		}
	case []int64:
		for _, x := range val {
			items = append(items, x)
		}
	case []float64:
		for _, x := range val {
			items = append(items, x)
		}
	case []string:
		for _, x := range val {
			items = append(items, x)
		}
	case string:
		if err := json.Unmarshal([]byte(val), &items); err != nil {
			return nil, conversionError(v, "list")
		}
	default:
		return nil, conversionError(v, "list")
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		x, err := conv(item)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}
