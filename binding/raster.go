package binding

import "fmt"

// DataType is a pixel data type.
type DataType int

const (
	Unknown DataType = iota
	Byte
	UInt16
	Int16
	UInt32
	Int32
	Float32
	Float64
)

var dataTypeNames = [...]string{"Unknown", "Byte", "UInt16", "Int16", "UInt32", "Int32", "Float32", "Float64"}

// String implements Stringer
func (dt DataType) String() string {
	if dt >= 0 && int(dt) < len(dataTypeNames) {
		return dataTypeNames[dt]
	}
	return fmt.Sprintf("DataType(%d)", int(dt))
}

// Size returns the number of bytes of one pixel, 0 for Unknown.
func (dt DataType) Size() int {
	switch dt {
	case Byte:
		return 1
	case UInt16, Int16:
		return 2
	case UInt32, Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// Band is one raster band.
type Band interface {
	// ID is the one-based band number.
	ID() int
	DataType() DataType
	Size() (x, y int)

	// Overviews is zero-based.
	Overviews() Indexed[Band]
}
