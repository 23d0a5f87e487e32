package binding

import (
	"fmt"
)

// FieldType is an attribute field type. Values match the OGRFieldType codes.
type FieldType int

const (
	FieldTypeInteger     FieldType = 0
	FieldTypeIntegerList FieldType = 1
	FieldTypeReal        FieldType = 2
	FieldTypeRealList    FieldType = 3
	FieldTypeString      FieldType = 4
	FieldTypeStringList  FieldType = 5
	FieldTypeBinary      FieldType = 8
	FieldTypeDateTime    FieldType = 11
)

var fieldTypeNames = map[FieldType]string{
	FieldTypeInteger:     "Integer",
	FieldTypeIntegerList: "IntegerList",
	FieldTypeReal:        "Real",
	FieldTypeRealList:    "RealList",
	FieldTypeString:      "String",
	FieldTypeStringList:  "StringList",
	FieldTypeBinary:      "Binary",
	FieldTypeDateTime:    "DateTime",
}

// String implements Stringer
func (ft FieldType) String() string {
	if name, ok := fieldTypeNames[ft]; ok {
		return name
	}
	return fmt.Sprintf("FieldType(%d)", int(ft))
}

// IsList reports whether the type holds a list of values.
func (ft FieldType) IsList() bool {
	return ft == FieldTypeIntegerList || ft == FieldTypeRealList || ft == FieldTypeStringList
}

// FieldDefn describes one attribute field.
type FieldDefn struct {
	Name string
	Type FieldType
}

// FieldSchema is a layer's field list. Adding a field may be rejected by
// the driver; with approxOK the driver may store it under a type it can
// represent instead.
type FieldSchema interface {
	Indexed[FieldDefn]
	Add(def FieldDefn, approxOK bool) error
}

// FieldValue is one attribute of a feature.
type FieldValue struct {
	Name  string
	Value any
}

// Layer is a vector dataset's collection of features with a shared schema.
type Layer interface {
	Name() string

	// Features is a forward-only cursor.
	Features() Cursor[Feature]

	// Fields is zero-based.
	Fields() FieldSchema

	// Extent returns the bounds of all features. With force false the
	// driver may fail instead of scanning.
	Extent(force bool) (RawBounds, error)
}

// Feature is one record in a layer.
type Feature interface {
	FID() int64

	// Fields is zero-based, in schema order.
	Fields() Indexed[FieldValue]

	// Definition is the field definition of the owning layer, zero-based.
	Definition() Indexed[FieldDefn]

	// Geometry returns nil when the feature has none.
	Geometry() Geometry
}
