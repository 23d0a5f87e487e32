package native

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/tingold/orb-gdal/binding"
)

// Geometry is an orb geometry with optional per-vertex Z values. Z values
// follow the vertex order of the geometry (rings in order, parts in
// order).
type Geometry struct {
	geom orb.Geometry
	z    []float64
}

// NewGeometry wraps a 2D orb geometry. A Bound is stored as its polygon.
func NewGeometry(g orb.Geometry) *Geometry {
	if b, ok := g.(orb.Bound); ok {
		g = b.ToPolygon()
	}
	return &Geometry{geom: g}
}

// NewGeometryZ wraps g with one Z value per vertex.
func NewGeometryZ(g orb.Geometry, z []float64) (*Geometry, error) {
	geom := NewGeometry(g)
	if n := countVertices(geom.geom); n != len(z) {
		return nil, fmt.Errorf("native: %d z values for %d vertices", len(z), n)
	}
	geom.z = append([]float64(nil), z...)
	return geom, nil
}

// Orb returns the 2D geometry.
func (g *Geometry) Orb() orb.Geometry { return g.geom }

// Z returns the per-vertex Z values, nil for 2D geometries.
func (g *Geometry) Z() []float64 { return g.z }

// Is3D reports whether Z values are present.
func (g *Geometry) Is3D() bool { return g.z != nil }

// Type implements binding.Geometry.
func (g *Geometry) Type() string {
	switch g.geom.(type) {
	case orb.Point:
		return "Point"
	case orb.MultiPoint:
		return "MultiPoint"
	case orb.LineString:
		return "LineString"
	case orb.Ring:
		return "LinearRing"
	case orb.Polygon:
		return "Polygon"
	case orb.MultiLineString:
		return "MultiLineString"
	case orb.MultiPolygon:
		return "MultiPolygon"
	case orb.Collection:
		return "GeometryCollection"
	default:
		return "Unknown"
	}
}

// Envelope implements binding.Geometry.
func (g *Geometry) Envelope() binding.RawBounds {
	b := g.geom.Bound()
	return binding.RawBounds{MinX: b.Min[0], MaxX: b.Max[0], MinY: b.Min[1], MaxY: b.Max[1]}
}

// Envelope3D implements binding.Geometry. MinZ and MaxZ are 0 for 2D
// geometries.
func (g *Geometry) Envelope3D() binding.RawBounds3D {
	b := g.geom.Bound()
	env := binding.RawBounds3D{MinX: b.Min[0], MaxX: b.Max[0], MinY: b.Min[1], MaxY: b.Max[1]}
	if len(g.z) > 0 {
		env.MinZ, env.MaxZ = math.Inf(1), math.Inf(-1)
		for _, z := range g.z {
			env.MinZ = math.Min(env.MinZ, z)
			env.MaxZ = math.Max(env.MaxZ, z)
		}
	}
	return env
}

// Typed returns g as the binding interface matching its shape: line
// strings and rings implement binding.LineString, polygons
// binding.Polygon, multi geometries and collections
// binding.GeometryCollection.
func (g *Geometry) Typed() binding.Geometry {
	switch g.geom.(type) {
	case orb.LineString, orb.Ring:
		return &LineString{g}
	case orb.Polygon:
		return &Polygon{g}
	case orb.MultiPoint, orb.MultiLineString, orb.MultiPolygon, orb.Collection:
		return &Collection{g}
	default:
		return g
	}
}

// sub returns the i-th part of g with the matching Z slice.
func (g *Geometry) sub(parts []orb.Geometry, i int) *Geometry {
	child := &Geometry{geom: parts[i]}
	if g.z != nil {
		offset := 0
		for _, p := range parts[:i] {
			offset += countVertices(p)
		}
		child.z = g.z[offset : offset+countVertices(parts[i])]
	}
	return child
}

// LineString is a line string or linear ring.
type LineString struct{ *Geometry }

// Points implements binding.LineString.
func (ls *LineString) Points() binding.Indexed[binding.Point] {
	var pts []orb.Point
	switch v := ls.geom.(type) {
	case orb.LineString:
		pts = v
	case orb.Ring:
		pts = v
	}
	return pointList{pts: pts, z: ls.z}
}

type pointList struct {
	pts []orb.Point
	z   []float64
}

func (p pointList) Count() int { return len(p.pts) }

func (p pointList) Get(i int) (binding.Point, error) {
	if i < 0 || i >= len(p.pts) {
		return binding.Point{}, fmt.Errorf("%w: point %d", ErrOutOfRange, i)
	}
	pt := binding.Point{X: p.pts[i][0], Y: p.pts[i][1]}
	if p.z != nil {
		pt.Z = p.z[i]
	}
	return pt, nil
}

// Polygon is a polygon.
type Polygon struct{ *Geometry }

// Rings implements binding.Polygon.
func (p *Polygon) Rings() binding.Indexed[binding.LineString] {
	poly, _ := p.geom.(orb.Polygon)
	parts := make([]orb.Geometry, len(poly))
	for i, r := range poly {
		parts[i] = r
	}
	return ringList{parent: p.Geometry, parts: parts}
}

type ringList struct {
	parent *Geometry
	parts  []orb.Geometry
}

func (r ringList) Count() int { return len(r.parts) }

func (r ringList) Get(i int) (binding.LineString, error) {
	if i < 0 || i >= len(r.parts) {
		return nil, fmt.Errorf("%w: ring %d", ErrOutOfRange, i)
	}
	return &LineString{r.parent.sub(r.parts, i)}, nil
}

// Collection is a multi geometry or geometry collection.
type Collection struct{ *Geometry }

// Children implements binding.GeometryCollection.
func (c *Collection) Children() binding.Indexed[binding.Geometry] {
	return childList{parent: c.Geometry, parts: parts(c.geom)}
}

type childList struct {
	parent *Geometry
	parts  []orb.Geometry
}

func (c childList) Count() int { return len(c.parts) }

func (c childList) Get(i int) (binding.Geometry, error) {
	if i < 0 || i >= len(c.parts) {
		return nil, fmt.Errorf("%w: child %d", ErrOutOfRange, i)
	}
	return c.parent.sub(c.parts, i).Typed(), nil
}

// parts splits a multi geometry into its members.
func parts(g orb.Geometry) []orb.Geometry {
	var out []orb.Geometry
	switch v := g.(type) {
	case orb.MultiPoint:
		for _, p := range v {
			out = append(out, p)
		}
	case orb.MultiLineString:
		for _, ls := range v {
			out = append(out, ls)
		}
	case orb.MultiPolygon:
		for _, p := range v {
			out = append(out, p)
		}
	case orb.Collection:
		out = append(out, v...)
	}
	return out
}

func countVertices(g orb.Geometry) int {
	switch v := g.(type) {
	case orb.Point:
		return 1
	case orb.MultiPoint:
		return len(v)
	case orb.LineString:
		return len(v)
	case orb.Ring:
		return len(v)
	case orb.Polygon:
		n := 0
		for _, r := range v {
			n += len(r)
		}
		return n
	case orb.Bound:
		return 5
	default:
		n := 0
		for _, p := range parts(g) {
			n += countVertices(p)
		}
		return n
	}
}
