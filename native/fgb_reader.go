package native

import (
	"fmt"
	"math"

	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"

	"github.com/tingold/orb-gdal/binding"
)

// fgbFile is a parsed FlatGeobuf file.
type fgbFile struct {
	fgb    *flatgeobuf.FlatGeoBuf
	header *flattypes.Header
}

// openFGB memory-maps path.
func openFGB(path string) (*fgbFile, error) {
	fgb, err := flatgeobuf.New(path)
	if err != nil {
		return nil, err
	}
	return newFGBFile(fgb)
}

// parseFGB reads a FlatGeobuf file held in memory.
func parseFGB(data []byte) (*fgbFile, error) {
	fgb, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return newFGBFile(fgb)
}

func newFGBFile(fgb *flatgeobuf.FlatGeoBuf) (*fgbFile, error) {
	h := fgb.Header()
	if h == nil {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidData)
	}
	return &fgbFile{fgb: fgb, header: h}, nil
}

// name returns the layer name stored in the header.
func (f *fgbFile) name() string { return string(f.header.Name()) }

func (f *fgbFile) crs() *CRS {
	var crs flattypes.Crs
	if f.header.Crs(&crs) == nil {
		return nil
	}
	return &CRS{
		Code:        int(crs.Code()),
		Name:        string(crs.Name()),
		Description: string(crs.Description()),
		WKT:         string(crs.Wkt()),
	}
}

// columns returns the header columns as column types and field
// definitions.
func (f *fgbFile) columns() ([]flattypes.ColumnType, []fieldColumn) {
	n := f.header.ColumnsLength()
	types := make([]flattypes.ColumnType, 0, n)
	cols := make([]fieldColumn, 0, n)
	for i := 0; i < n; i++ {
		var col flattypes.Column
		if !f.header.Columns(&col, i) {
			continue
		}
		types = append(types, col.Type())
		cols = append(cols, fieldColumn{name: string(col.Name()), typ: col.Type()})
	}
	return types, cols
}

type fieldColumn struct {
	name string
	typ  flattypes.ColumnType
}

// load reads every feature into l. Features are visited through the
// packed R-tree, so files without an index can only be read when empty.
func (f *fgbFile) load(l *Layer) error {
	types, cols := f.columns()
	for _, c := range cols {
		l.schema.fields = append(l.schema.fields, fieldDefn(c))
	}

	if f.header.FeaturesCount() == 0 {
		return nil
	}
	if f.header.IndexNodeSize() == 0 {
		return ErrNoIndex
	}

	minX, minY, maxX, maxY := -math.MaxFloat64, -math.MaxFloat64, math.MaxFloat64, math.MaxFloat64
	if f.header.EnvelopeLength() >= 4 {
		// widened so degenerate extents still hit
		minX, minY = f.header.Envelope(0)-1, f.header.Envelope(1)-1
		maxX, maxY = f.header.Envelope(2)+1, f.header.Envelope(3)+1
	}
	features, err := f.fgb.Search(minX, minY, maxX, maxY)
	if err != nil {
		return err
	}
	for _, ff := range features {
		if ff == nil {
			continue
		}
		var (
			geom  *Geometry
			fgeom flattypes.Geometry
		)
		if g := ff.Geometry(&fgeom); g != nil {
			geom = decodeGeometry(g)
		}

		props := make([]byte, ff.PropertiesLength())
		for i := range props {
			props[i] = byte(ff.Properties(i))
		}
		values, err := decodeProperties(props, types)
		if err != nil {
			return err
		}

		feat, err := l.appendFeature(geom, nil)
		if err != nil {
			return err
		}
		for i, v := range values {
			if v == nil {
				continue
			}
			if err := feat.setValueAt(i, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func fieldDefn(c fieldColumn) binding.FieldDefn {
	return binding.FieldDefn{Name: c.name, Type: fieldTypeFor(c.typ)}
}
