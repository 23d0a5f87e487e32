package native

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"

	"github.com/tingold/orb-gdal/binding"
)

// acceptFGBField stores list fields as JSON strings when approximation is
// allowed; FlatGeobuf columns hold scalars only.
func acceptFGBField(def binding.FieldDefn, approxOK bool) (binding.FieldDefn, error) {
	if _, err := columnTypeFor(def.Type); err == nil {
		return def, nil
	}
	if def.Type.IsList() && approxOK {
		def.Type = binding.FieldTypeString
		return def, nil
	}
	return def, fmt.Errorf("%w: %s fields in FlatGeobuf", ErrUnsupportedType, def.Type)
}

// columnTypeFor maps a field type to the column type it is written as.
func columnTypeFor(ft binding.FieldType) (flattypes.ColumnType, error) {
	switch ft {
	case binding.FieldTypeInteger:
		return flattypes.ColumnTypeLong, nil
	case binding.FieldTypeReal:
		return flattypes.ColumnTypeDouble, nil
	case binding.FieldTypeString:
		return flattypes.ColumnTypeString, nil
	case binding.FieldTypeDateTime:
		return flattypes.ColumnTypeDateTime, nil
	case binding.FieldTypeBinary:
		return flattypes.ColumnTypeBinary, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, ft)
	}
}

// fieldTypeFor maps a column type read from a file to a field type.
// Json columns are exposed as strings.
func fieldTypeFor(ct flattypes.ColumnType) binding.FieldType {
	switch ct {
	case flattypes.ColumnTypeBool,
		flattypes.ColumnTypeByte, flattypes.ColumnTypeUByte,
		flattypes.ColumnTypeShort, flattypes.ColumnTypeUShort,
		flattypes.ColumnTypeInt, flattypes.ColumnTypeUInt,
		flattypes.ColumnTypeLong, flattypes.ColumnTypeULong:
		return binding.FieldTypeInteger
	case flattypes.ColumnTypeFloat, flattypes.ColumnTypeDouble:
		return binding.FieldTypeReal
	case flattypes.ColumnTypeDateTime:
		return binding.FieldTypeDateTime
	case flattypes.ColumnTypeBinary:
		return binding.FieldTypeBinary
	default:
		return binding.FieldTypeString
	}
}

// encodeProperties writes the non-null values of f in the FlatGeobuf
// property layout: a little-endian uint16 column index followed by the
// value. Variable length values carry a uint32 byte length.
func encodeProperties(f *Feature) ([]byte, error) {
	var buf bytes.Buffer
	for i, def := range f.schema.fields {
		v := f.valueAt(i)
		if v == nil {
			continue
		}
		ct, err := columnTypeFor(def.Type)
		if err != nil {
			return nil, err
		}
		_ = binary.Write(&buf, binary.LittleEndian, uint16(i))
		if err := encodeValue(&buf, ct, v); err != nil {
			return nil, fmt.Errorf("field %s: %w", def.Name, err)
		}
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, ct flattypes.ColumnType, v any) error {
	switch ct {
	case flattypes.ColumnTypeLong:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		return binary.Write(buf, binary.LittleEndian, n)
	case flattypes.ColumnTypeDouble:
		x, err := toFloat64(v)
		if err != nil {
			return err
		}
		return binary.Write(buf, binary.LittleEndian, math.Float64bits(x))
	case flattypes.ColumnTypeDateTime:
		t, err := toTime(v)
		if err != nil {
			return err
		}
		writeSized(buf, []byte(t.Format(time.RFC3339Nano)))
	case flattypes.ColumnTypeBinary:
		b, err := toBytes(v)
		if err != nil {
			return err
		}
		writeSized(buf, b)
	default:
		writeSized(buf, []byte(toString(v)))
	}
	return nil
}

func writeSized(buf *bytes.Buffer, b []byte) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(b)))
	buf.Write(b)
}

// decodeProperties reads a property buffer into values indexed by column.
func decodeProperties(data []byte, columns []flattypes.ColumnType) ([]any, error) {
	values := make([]any, len(columns))
	for offset := 0; offset < len(data); {
		if offset+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated column index", ErrInvalidData)
		}
		col := int(binary.LittleEndian.Uint16(data[offset:]))
		offset += 2
		if col >= len(columns) {
			return nil, fmt.Errorf("%w: column %d of %d", ErrInvalidData, col, len(columns))
		}
		v, n, err := decodeValue(data[offset:], columns[col])
		if err != nil {
			return nil, err
		}
		values[col] = v
		offset += n
	}
	return values, nil
}

// decodeValue returns the value at the start of data and its encoded size.
// Integers decode to int64, floats to float64, date-times to time.Time.
func decodeValue(data []byte, ct flattypes.ColumnType) (any, int, error) {
	need := func(n int) error {
		if len(data) < n {
			return fmt.Errorf("%w: %s value needs %d bytes, have %d",
				ErrInvalidData, flattypes.EnumNamesColumnType[ct], n, len(data))
		}
		return nil
	}

	switch ct {
	case flattypes.ColumnTypeBool, flattypes.ColumnTypeUByte:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return int64(data[0]), 1, nil
	case flattypes.ColumnTypeByte:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return int64(int8(data[0])), 1, nil
	case flattypes.ColumnTypeShort:
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return int64(int16(binary.LittleEndian.Uint16(data))), 2, nil
	case flattypes.ColumnTypeUShort:
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return int64(binary.LittleEndian.Uint16(data)), 2, nil
	case flattypes.ColumnTypeInt:
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return int64(int32(binary.LittleEndian.Uint32(data))), 4, nil
	case flattypes.ColumnTypeUInt:
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return int64(binary.LittleEndian.Uint32(data)), 4, nil
	case flattypes.ColumnTypeLong, flattypes.ColumnTypeULong:
		if err := need(8); err != nil {
			return nil, 0, err
		}
		return int64(binary.LittleEndian.Uint64(data)), 8, nil
	case flattypes.ColumnTypeFloat:
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(data))), 4, nil
	case flattypes.ColumnTypeDouble:
		if err := need(8); err != nil {
			return nil, 0, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(data)), 8, nil
	}

	// length prefixed
	if err := need(4); err != nil {
		return nil, 0, err
	}
	size := int(binary.LittleEndian.Uint32(data))
	if err := need(4 + size); err != nil {
		return nil, 0, err
	}
	raw := data[4 : 4+size]
	switch ct {
	case flattypes.ColumnTypeBinary:
		return append([]byte(nil), raw...), 4 + size, nil
	case flattypes.ColumnTypeDateTime:
		t, err := toTime(string(raw))
		if err != nil {
			return nil, 0, err
		}
		return t, 4 + size, nil
	default:
		return string(raw), 4 + size, nil
	}
}
