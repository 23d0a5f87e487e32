package gdal

import (
	"github.com/tingold/orb-gdal/binding"
)

// Geometry wraps a native geometry. Envelope queries return Envelope
// values instead of raw bounds.
type Geometry struct {
	native binding.Geometry
}

// WrapGeometry wraps g, returning nil for a nil geometry.
func WrapGeometry(g binding.Geometry) *Geometry {
	if g == nil {
		return nil
	}
	return &Geometry{native: g}
}

// Native returns the wrapped native geometry.
func (g *Geometry) Native() binding.Geometry { return g.native }

// Type returns the native geometry type name.
func (g *Geometry) Type() string { return g.native.Type() }

// Envelope returns a snapshot of the 2D bounds.
func (g *Geometry) Envelope() Envelope {
	return NewEnvelope(g.native.Envelope())
}

// Envelope3D returns a snapshot of the 3D bounds.
func (g *Geometry) Envelope3D() Envelope3D {
	return NewEnvelope3D(g.native.Envelope3D())
}

// AsLineString returns g as a line string if it is one.
func (g *Geometry) AsLineString() (*LineString, bool) {
	ls, ok := g.native.(binding.LineString)
	if !ok {
		return nil, false
	}
	return &LineString{Geometry: g, native: ls}, true
}

// AsPolygon returns g as a polygon if it is one.
func (g *Geometry) AsPolygon() (*Polygon, bool) {
	p, ok := g.native.(binding.Polygon)
	if !ok {
		return nil, false
	}
	return &Polygon{Geometry: g, native: p}, true
}

// AsCollection returns g as a geometry collection if it is one. Multi
// geometries are collections.
func (g *Geometry) AsCollection() (*GeometryCollection, bool) {
	c, ok := g.native.(binding.GeometryCollection)
	if !ok {
		return nil, false
	}
	return &GeometryCollection{Geometry: g, native: c}, true
}

// LineString is a line string or polygon ring.
type LineString struct {
	*Geometry
	native binding.LineString
}

// Points walks the vertices.
func (ls *LineString) Points() *Collection[binding.Point] {
	return newIndexed(KindLineStringPoints, ls.native.Points())
}

// Polygon is a polygon.
type Polygon struct {
	*Geometry
	native binding.Polygon
}

// Rings walks the rings, exterior first.
func (p *Polygon) Rings() *Collection[*LineString] {
	return newIndexed(KindPolygonRings, mapIndexed(p.native.Rings(), wrapRing))
}

func wrapRing(r binding.LineString) *LineString {
	return &LineString{Geometry: &Geometry{native: r}, native: r}
}

// GeometryCollection is a multi geometry or collection.
type GeometryCollection struct {
	*Geometry
	native binding.GeometryCollection
}

// Children walks the member geometries.
func (c *GeometryCollection) Children() *Collection[*Geometry] {
	return newIndexed(KindGeometryChildren, mapIndexed(c.native.Children(), WrapGeometry))
}
