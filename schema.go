package gdal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/tingold/orb-gdal/binding"
)

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered set of named values. Fields inferred from a record
// are added in record order.
type Record []Field

// RecordFromJSON decodes a JSON object, keeping its key order. Numbers are
// kept as json.Number.
func RecordFromJSON(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("gdal: expected a JSON object, got %v", tok)
	}

	var rec Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("gdal: unexpected JSON token %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		rec = append(rec, Field{Name: name, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordFromProperties converts GeoJSON properties. Properties are
// unordered, so keys are sorted.
func RecordFromProperties(props geojson.Properties) Record {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	rec := make(Record, 0, len(names))
	for _, name := range names {
		rec = append(rec, Field{Name: name, Value: props[name]})
	}
	return rec
}

// valueKind is the closed set of value kinds the inference accepts.
type valueKind int

const (
	kindUnsupported valueKind = iota
	kindInteger
	kindReal
	kindText
	kindBoolean
	kindTimestamp
	kindBinary
	kindList
)

var timeType = reflect.TypeOf(time.Time{})

// classify sorts a Go value into a valueKind.
func classify(v any) valueKind {
	switch val := v.(type) {
	case nil:
		return kindUnsupported
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindInteger
	case float32:
		return numberKind(float64(val))
	case float64:
		return numberKind(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return kindUnsupported
		}
		return numberKind(f)
	case string:
		return kindText
	case bool:
		return kindBoolean
	case time.Time, *time.Time:
		return kindTimestamp
	case []byte, json.RawMessage:
		return kindBinary
	}

	// Named types fall through to their underlying kind.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return kindInteger
	case reflect.Float32, reflect.Float64:
		return numberKind(rv.Float())
	case reflect.String:
		return kindText
	case reflect.Bool:
		return kindBoolean
	case reflect.Slice, reflect.Array:
		return kindList
	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return kindTimestamp
		}
	}
	return kindUnsupported
}

// numberKind follows the "% 1 === 0" rule: NaN and infinities are Real.
func numberKind(f float64) valueKind {
	if math.Mod(f, 1) == 0 {
		return kindInteger
	}
	return kindReal
}

// InferFieldType returns the field type a value would be stored under.
func InferFieldType(v any) (FieldType, error) {
	switch classify(v) {
	case kindInteger, kindBoolean:
		return FieldTypeInteger, nil
	case kindReal:
		return FieldTypeReal, nil
	case kindText:
		return FieldTypeString, nil
	case kindTimestamp:
		return FieldTypeDateTime, nil
	case kindBinary:
		return FieldTypeBinary, nil
	case kindList:
		return listFieldType(v)
	default:
		return 0, ErrValueType
	}
}

// listFieldType infers a list type from the first element. An empty list
// or an element without a list counterpart is an array element error.
func listFieldType(v any) (FieldType, error) {
	rv := reflect.ValueOf(v)
	if rv.Len() == 0 {
		return 0, ErrArrayElementType
	}

	elem, err := InferFieldType(rv.Index(0).Interface())
	if err != nil {
		return 0, ErrArrayElementType
	}
	switch elem {
	case FieldTypeString:
		return FieldTypeStringList, nil
	case FieldTypeInteger:
		return FieldTypeIntegerList, nil
	case FieldTypeReal:
		return FieldTypeRealList, nil
	default:
		return 0, ErrArrayElementType
	}
}

// AddFields adds one field per record entry to schema, in record order.
//
// The operation is not atomic: on the first value without a field type it
// stops with a *TypeInferenceError and the fields added before it stay in
// the schema. Errors from schema.Add are returned unchanged.
func AddFields(schema binding.FieldSchema, rec Record, approxOK bool) error {
	for i, f := range rec {
		ft, err := InferFieldType(f.Value)
		if err != nil {
			return &TypeInferenceError{Field: f.Name, Added: i, Err: err}
		}
		if err := schema.Add(FieldDefn{Name: f.Name, Type: ft}, approxOK); err != nil {
			return err
		}
	}
	return nil
}

// FieldOption modifies how fields are added to a layer schema.
type FieldOption interface {
	setFieldOpt(o *fieldOpts)
}

type fieldOpts struct {
	approxOK bool
}

type approxOKOpt struct{}

func (approxOKOpt) setFieldOpt(o *fieldOpts) { o.approxOK = true }

// ApproxOK lets the driver store a field under a type it can represent
// when the inferred one is not supported.
func ApproxOK() FieldOption { return approxOKOpt{} }

func buildFieldOpts(opts []FieldOption) fieldOpts {
	var fo fieldOpts
	for _, o := range opts {
		o.setFieldOpt(&fo)
	}
	return fo
}

// IsTypeInference reports whether err is a type inference failure.
func IsTypeInference(err error) bool {
	var tie *TypeInferenceError
	return errors.As(err, &tie)
}
