package binding

// RawBounds is a 2D bounding box as returned by the native library.
type RawBounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// RawBounds3D is a 3D bounding box as returned by the native library.
type RawBounds3D struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// Point is a single vertex. Z is 0 for 2D geometries.
type Point struct {
	X, Y, Z float64
}

// Geometry is any native geometry.
type Geometry interface {
	// Type returns the geometry type name, e.g. "Polygon".
	Type() string
	Envelope() RawBounds
	Envelope3D() RawBounds3D
}

// LineString is a curve or a polygon ring.
type LineString interface {
	Geometry

	// Points is zero-based.
	Points() Indexed[Point]
}

// Polygon is a surface bounded by rings.
type Polygon interface {
	Geometry

	// Rings is zero-based; the exterior ring comes first.
	Rings() Indexed[LineString]
}

// GeometryCollection is a multi geometry or heterogeneous collection.
type GeometryCollection interface {
	Geometry

	// Children is zero-based.
	Children() Indexed[Geometry]
}
