package native

import (
	"fmt"

	"github.com/tingold/orb-gdal/binding"
)

// Feature is one record of a Layer. Values are stored in schema order;
// fields added to the schema after the feature was created read as nil.
type Feature struct {
	fid    int64
	schema *Schema
	values []any
	geom   *Geometry
}

// FID implements binding.Feature.
func (f *Feature) FID() int64 { return f.fid }

// Fields implements binding.Feature.
func (f *Feature) Fields() binding.Indexed[binding.FieldValue] {
	return featureFields{f}
}

// Definition implements binding.Feature.
func (f *Feature) Definition() binding.Indexed[binding.FieldDefn] {
	return f.schema
}

// Geometry implements binding.Feature.
func (f *Feature) Geometry() binding.Geometry {
	if f.geom == nil {
		return nil
	}
	return f.geom.Typed()
}

// NativeGeometry returns the concrete geometry, or nil.
func (f *Feature) NativeGeometry() *Geometry { return f.geom }

// SetGeometry replaces the geometry.
func (f *Feature) SetGeometry(g *Geometry) { f.geom = g }

// Value returns the value of the named field.
func (f *Feature) Value(name string) (any, bool) {
	i := f.schema.Index(name)
	if i < 0 {
		return nil, false
	}
	return f.valueAt(i), true
}

// SetValue stores v under the named field, converted to the field type.
func (f *Feature) SetValue(name string, v any) error {
	i := f.schema.Index(name)
	if i < 0 {
		return fmt.Errorf("native: no field named %q", name)
	}
	return f.setValueAt(i, v)
}

func (f *Feature) valueAt(i int) any {
	if i < len(f.values) {
		return f.values[i]
	}
	return nil
}

func (f *Feature) setValueAt(i int, v any) error {
	converted, err := coerce(f.schema.fields[i].Type, v)
	if err != nil {
		return fmt.Errorf("field %s: %w", f.schema.fields[i].Name, err)
	}
	for len(f.values) <= i {
		f.values = append(f.values, nil)
	}
	f.values[i] = converted
	return nil
}

type featureFields struct {
	f *Feature
}

func (ff featureFields) Count() int { return ff.f.schema.Count() }

func (ff featureFields) Get(i int) (binding.FieldValue, error) {
	def, err := ff.f.schema.Get(i)
	if err != nil {
		return binding.FieldValue{}, err
	}
	return binding.FieldValue{Name: def.Name, Value: ff.f.valueAt(i)}, nil
}
