package native

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tingold/orb-gdal/binding"
)

func TestCoerce(t *testing.T) {
	when := time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ft   binding.FieldType
		in   any
		want any
	}{
		{"int", binding.FieldTypeInteger, 42, int64(42)},
		{"uint8", binding.FieldTypeInteger, uint8(7), int64(7)},
		{"bool", binding.FieldTypeInteger, true, int64(1)},
		{"json int", binding.FieldTypeInteger, json.Number("12"), int64(12)},
		{"numeric string", binding.FieldTypeInteger, "-3", int64(-3)},
		{"real from int", binding.FieldTypeReal, 3, 3.0},
		{"real from float32", binding.FieldTypeReal, float32(0.5), 0.5},
		{"json real", binding.FieldTypeReal, json.Number("1.25"), 1.25},
		{"string", binding.FieldTypeString, "abc", "abc"},
		{"string from number", binding.FieldTypeString, 12.5, "12.5"},
		{"string from bytes", binding.FieldTypeString, []byte("hi"), "aGk="},
		{"string from map", binding.FieldTypeString, map[string]any{"a": 1}, `{"a":1}`},
		{"date from string", binding.FieldTypeDateTime, "2023-07-04", when},
		{"date", binding.FieldTypeDateTime, when, when},
		{"binary", binding.FieldTypeBinary, []byte{1}, []byte{1}},
		{"binary from base64", binding.FieldTypeBinary, "aGk=", []byte("hi")},
		{"int list", binding.FieldTypeIntegerList, []any{1.0, 2.0}, []int64{1, 2}},
		{"real list", binding.FieldTypeRealList, []int{1, 2}, []float64{1, 2}},
		{"string list json", binding.FieldTypeStringList, `["a","b"]`, []string{"a", "b"}},
		{"nil", binding.FieldTypeInteger, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerce(tt.ft, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerce_Errors(t *testing.T) {
	tests := []struct {
		name string
		ft   binding.FieldType
		in   any
	}{
		{"int from text", binding.FieldTypeInteger, "many"},
		{"real from struct", binding.FieldTypeReal, struct{}{}},
		{"bad date", binding.FieldTypeDateTime, "yesterday"},
		{"bad base64", binding.FieldTypeBinary, "***"},
		{"list from int", binding.FieldTypeIntegerList, 4},
		{"list element", binding.FieldTypeIntegerList, []any{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := coerce(tt.ft, tt.in)
			assert.ErrorIs(t, err, ErrInvalidData)
		})
	}

	_, err := coerce(binding.FieldType(99), 1)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSchema_Add(t *testing.T) {
	s := newSchema(nil, nil)
	require.NoError(t, s.Add(binding.FieldDefn{Name: "a", Type: binding.FieldTypeInteger}, false))
	require.NoError(t, s.Add(binding.FieldDefn{Name: "b", Type: binding.FieldTypeString}, false))

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 1, s.Index("B"))
	assert.Equal(t, -1, s.Index("c"))

	assert.ErrorIs(t, s.Add(binding.FieldDefn{Name: "A"}, false), ErrFieldExists)
	assert.ErrorIs(t, s.Add(binding.FieldDefn{}, false), ErrInvalidData)

	_, err := s.Get(2)
	assert.ErrorIs(t, err, ErrOutOfRange)

	fields := s.Fields()
	fields[0].Name = "changed"
	def, _ := s.Get(0)
	assert.Equal(t, "a", def.Name)
}
