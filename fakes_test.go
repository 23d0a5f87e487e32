package gdal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tingold/orb-gdal/binding"
)

var errFakeOutOfRange = errors.New("fake: index out of range")

// sliceIndexed is an Indexed over a slice starting at base.
type sliceIndexed[T any] struct {
	base  int
	items []T
	gets  []int
}

func (s *sliceIndexed[T]) Count() int { return len(s.items) }

func (s *sliceIndexed[T]) Get(i int) (T, error) {
	s.gets = append(s.gets, i)
	if i < s.base || i >= s.base+len(s.items) {
		var zero T
		return zero, errFakeOutOfRange
	}
	return s.items[i-s.base], nil
}

// sliceCursor is a Cursor over a slice that records resets.
type sliceCursor[T any] struct {
	items  []T
	pos    int
	resets int
	err    error // returned by Next once pos reaches errAt
	errAt  int
}

func (c *sliceCursor[T]) First() (T, bool, error) {
	c.pos = 0
	return c.Next()
}

func (c *sliceCursor[T]) Next() (T, bool, error) {
	var zero T
	if c.err != nil && c.pos == c.errAt {
		return zero, false, c.err
	}
	if c.pos >= len(c.items) {
		return zero, false, nil
	}
	item := c.items[c.pos]
	c.pos++
	return item, true, nil
}

func (c *sliceCursor[T]) ResetReading() { c.resets++ }

// bareCursor has neither ResetReading nor Count.
type bareCursor[T any] struct {
	items []T
	pos   int
}

func (c *bareCursor[T]) First() (T, bool, error) {
	c.pos = 0
	return c.Next()
}

func (c *bareCursor[T]) Next() (T, bool, error) {
	var zero T
	if c.pos >= len(c.items) {
		return zero, false, nil
	}
	c.pos++
	return c.items[c.pos-1], true, nil
}

// fakeLibrary records every native call.
type fakeLibrary struct {
	drivers   []*fakeDriver
	quiet     int
	config    map[string]string
	opens     []string
	lookupErr error
}

func newFakeLibrary(drivers ...*fakeDriver) *fakeLibrary {
	return &fakeLibrary{drivers: drivers, config: map[string]string{}}
}

func (l *fakeLibrary) Open(filename, mode string) (binding.Dataset, error) {
	l.opens = append(l.opens, filename+":"+mode)
	if strings.HasSuffix(filename, ".bad") {
		return nil, errors.New("fake: not recognized")
	}
	return &fakeDataset{description: filename}, nil
}

func (l *fakeLibrary) Drivers() binding.DriverRegistry { return fakeRegistry{l} }

func (l *fakeLibrary) SetConfigOption(key, value string) { l.config[key] = value }

func (l *fakeLibrary) Quiet() { l.quiet++ }

// calls returns the number of native calls of any kind.
func (l *fakeLibrary) calls() int {
	n := len(l.opens)
	for _, d := range l.drivers {
		n += d.lookups + len(d.opens) + len(d.creates)
	}
	return n
}

type fakeRegistry struct{ lib *fakeLibrary }

func (r fakeRegistry) Count() int { return len(r.lib.drivers) }

func (r fakeRegistry) Get(i int) (binding.Driver, error) {
	if i < 0 || i >= len(r.lib.drivers) {
		return nil, errFakeOutOfRange
	}
	return r.lib.drivers[i], nil
}

func (r fakeRegistry) Lookup(name string) (binding.Driver, error) {
	if r.lib.lookupErr != nil {
		return nil, r.lib.lookupErr
	}
	for _, d := range r.lib.drivers {
		if d.name == name {
			d.lookups++
			return d, nil
		}
	}
	return nil, fmt.Errorf("fake: no driver %q", name)
}

// fakeDriver opens anything unless failing is set.
type fakeDriver struct {
	name    string
	failing bool
	lookups int
	opens   []string
	creates [][]any
}

func (d *fakeDriver) Name() string { return d.name }

func (d *fakeDriver) Open(filename, mode string) (binding.Dataset, error) {
	d.opens = append(d.opens, mode)
	if d.failing {
		return nil, fmt.Errorf("fake: %s cannot open %s", d.name, filename)
	}
	return &fakeDataset{description: filename, driver: d}, nil
}

func (d *fakeDriver) Create(filename string, args ...any) (binding.Dataset, error) {
	d.creates = append(d.creates, args)
	if d.failing {
		return nil, fmt.Errorf("fake: %s cannot create %s", d.name, filename)
	}
	return &fakeDataset{description: filename, driver: d}, nil
}

type fakeDataset struct {
	description string
	driver      binding.Driver
	bands       []binding.Band
	layers      []binding.Layer
	closed      bool
}

func (ds *fakeDataset) Description() string    { return ds.description }
func (ds *fakeDataset) Driver() binding.Driver { return ds.driver }

func (ds *fakeDataset) Bands() binding.Indexed[binding.Band] {
	return &sliceIndexed[binding.Band]{base: 1, items: ds.bands}
}

func (ds *fakeDataset) Layers() binding.Indexed[binding.Layer] {
	return &sliceIndexed[binding.Layer]{items: ds.layers}
}

func (ds *fakeDataset) Close() error {
	ds.closed = true
	return nil
}

type fakeBand struct {
	id        int
	overviews []binding.Band
}

func (b *fakeBand) ID() int                    { return b.id }
func (b *fakeBand) DataType() binding.DataType { return binding.Byte }
func (b *fakeBand) Size() (int, int)           { return 64, 64 }

func (b *fakeBand) Overviews() binding.Indexed[binding.Band] {
	return &sliceIndexed[binding.Band]{items: b.overviews}
}

// fakeSchema accepts fields until rejectAt fields are present.
type fakeSchema struct {
	defs     []binding.FieldDefn
	rejectAt int
	approx   []bool
}

func (s *fakeSchema) Count() int { return len(s.defs) }

func (s *fakeSchema) Get(i int) (binding.FieldDefn, error) {
	if i < 0 || i >= len(s.defs) {
		return binding.FieldDefn{}, errFakeOutOfRange
	}
	return s.defs[i], nil
}

func (s *fakeSchema) Add(def binding.FieldDefn, approxOK bool) error {
	if s.rejectAt > 0 && len(s.defs) >= s.rejectAt {
		return errors.New("fake: schema full")
	}
	s.defs = append(s.defs, def)
	s.approx = append(s.approx, approxOK)
	return nil
}

type fakeLayer struct {
	name     string
	schema   *fakeSchema
	features *sliceCursor[binding.Feature]
	extent   binding.RawBounds
	forced   []bool
}

func (l *fakeLayer) Name() string                              { return l.name }
func (l *fakeLayer) Features() binding.Cursor[binding.Feature] { return l.features }
func (l *fakeLayer) Fields() binding.FieldSchema               { return l.schema }

func (l *fakeLayer) Extent(force bool) (binding.RawBounds, error) {
	l.forced = append(l.forced, force)
	if !force && l.extent == (binding.RawBounds{}) {
		return binding.RawBounds{}, errors.New("fake: extent not known")
	}
	return l.extent, nil
}

type fakeFeature struct {
	fid    int64
	values []binding.FieldValue
	defs   []binding.FieldDefn
	geom   binding.Geometry
}

func (f *fakeFeature) FID() int64 { return f.fid }

func (f *fakeFeature) Fields() binding.Indexed[binding.FieldValue] {
	return &sliceIndexed[binding.FieldValue]{items: f.values}
}

func (f *fakeFeature) Definition() binding.Indexed[binding.FieldDefn] {
	return &sliceIndexed[binding.FieldDefn]{items: f.defs}
}

func (f *fakeFeature) Geometry() binding.Geometry { return f.geom }

// fakeGeometry is a point set with optional rings or children.
type fakeGeometry struct {
	typ      string
	points   []binding.Point
	rings    []binding.LineString
	children []binding.Geometry
}

func (g *fakeGeometry) Type() string { return g.typ }

func (g *fakeGeometry) Envelope() binding.RawBounds {
	b := g.Envelope3D()
	return binding.RawBounds{MinX: b.MinX, MaxX: b.MaxX, MinY: b.MinY, MaxY: b.MaxY}
}

func (g *fakeGeometry) Envelope3D() binding.RawBounds3D {
	var b binding.RawBounds3D
	for i, p := range g.allPoints() {
		if i == 0 {
			b = binding.RawBounds3D{MinX: p.X, MaxX: p.X, MinY: p.Y, MaxY: p.Y, MinZ: p.Z, MaxZ: p.Z}
			continue
		}
		b.MinX, b.MaxX = min(b.MinX, p.X), max(b.MaxX, p.X)
		b.MinY, b.MaxY = min(b.MinY, p.Y), max(b.MaxY, p.Y)
		b.MinZ, b.MaxZ = min(b.MinZ, p.Z), max(b.MaxZ, p.Z)
	}
	return b
}

func (g *fakeGeometry) allPoints() []binding.Point {
	pts := append([]binding.Point(nil), g.points...)
	for _, r := range g.rings {
		pts = append(pts, r.(*fakeLine).points...)
	}
	for _, c := range g.children {
		pts = append(pts, c.(interface{ allPoints() []binding.Point }).allPoints()...)
	}
	return pts
}

type fakeLine struct{ fakeGeometry }

func (l *fakeLine) Points() binding.Indexed[binding.Point] {
	return &sliceIndexed[binding.Point]{items: l.points}
}

type fakePolygon struct{ fakeGeometry }

func (p *fakePolygon) Rings() binding.Indexed[binding.LineString] {
	return &sliceIndexed[binding.LineString]{items: p.rings}
}

type fakeCollection struct{ fakeGeometry }

func (c *fakeCollection) Children() binding.Indexed[binding.Geometry] {
	return &sliceIndexed[binding.Geometry]{items: c.children}
}
