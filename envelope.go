package gdal

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/tingold/orb-gdal/binding"
)

// Envelope is a 2D axis-aligned bounding box. It is a snapshot of the
// bounds it was built from and is never updated afterwards.
//
// The zero Envelope is empty.
type Envelope struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// NewEnvelope copies raw native bounds into an Envelope.
func NewEnvelope(raw binding.RawBounds) Envelope {
	return Envelope{MinX: raw.MinX, MaxX: raw.MaxX, MinY: raw.MinY, MaxY: raw.MaxY}
}

// EnvelopeFromBound converts an orb.Bound.
func EnvelopeFromBound(b orb.Bound) Envelope {
	return Envelope{MinX: b.Min[0], MaxX: b.Max[0], MinY: b.Min[1], MaxY: b.Max[1]}
}

// IsEmpty reports whether every field is zero.
func (e Envelope) IsEmpty() bool {
	return e == Envelope{}
}

// Width returns MaxX - MinX.
func (e Envelope) Width() float64 { return e.MaxX - e.MinX }

// Height returns MaxY - MinY.
func (e Envelope) Height() float64 { return e.MaxY - e.MinY }

// Center returns the midpoint.
func (e Envelope) Center() orb.Point {
	return orb.Point{(e.MinX + e.MaxX) / 2, (e.MinY + e.MaxY) / 2}
}

// Merge returns the smallest envelope covering e and o. An empty operand
// is ignored.
func (e Envelope) Merge(o Envelope) Envelope {
	if e.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return e
	}
	return Envelope{
		MinX: math.Min(e.MinX, o.MinX),
		MaxX: math.Max(e.MaxX, o.MaxX),
		MinY: math.Min(e.MinY, o.MinY),
		MaxY: math.Max(e.MaxY, o.MaxY),
	}
}

// Intersects reports whether e and o overlap. Touching edges count.
func (e Envelope) Intersects(o Envelope) bool {
	return e.MinX <= o.MaxX && e.MaxX >= o.MinX &&
		e.MinY <= o.MaxY && e.MaxY >= o.MinY
}

// Intersect returns the overlap of e and o, or the empty envelope.
func (e Envelope) Intersect(o Envelope) Envelope {
	if !e.Intersects(o) {
		return Envelope{}
	}
	return Envelope{
		MinX: math.Max(e.MinX, o.MinX),
		MaxX: math.Min(e.MaxX, o.MaxX),
		MinY: math.Max(e.MinY, o.MinY),
		MaxY: math.Min(e.MaxY, o.MaxY),
	}
}

// Contains reports whether o lies entirely within e.
func (e Envelope) Contains(o Envelope) bool {
	return e.MinX <= o.MinX && e.MaxX >= o.MaxX &&
		e.MinY <= o.MinY && e.MaxY >= o.MaxY
}

// ContainsPoint reports whether p lies within e, boundary included.
func (e Envelope) ContainsPoint(p orb.Point) bool {
	return p[0] >= e.MinX && p[0] <= e.MaxX && p[1] >= e.MinY && p[1] <= e.MaxY
}

// Equal reports field-wise equality.
func (e Envelope) Equal(o Envelope) bool { return e == o }

// Bound converts to an orb.Bound.
func (e Envelope) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e.MinX, e.MinY}, Max: orb.Point{e.MaxX, e.MaxY}}
}

// Polygon returns the envelope as a closed rectangle.
func (e Envelope) Polygon() orb.Polygon {
	return e.Bound().ToPolygon()
}

// Envelope3D is a 3D axis-aligned bounding box snapshot.
type Envelope3D struct {
	Envelope
	MinZ, MaxZ float64
}

// NewEnvelope3D copies raw native bounds into an Envelope3D.
func NewEnvelope3D(raw binding.RawBounds3D) Envelope3D {
	return Envelope3D{
		Envelope: Envelope{MinX: raw.MinX, MaxX: raw.MaxX, MinY: raw.MinY, MaxY: raw.MaxY},
		MinZ:     raw.MinZ,
		MaxZ:     raw.MaxZ,
	}
}

// IsEmpty reports whether every field is zero.
func (e Envelope3D) IsEmpty() bool {
	return e == Envelope3D{}
}

// Depth returns MaxZ - MinZ.
func (e Envelope3D) Depth() float64 { return e.MaxZ - e.MinZ }

// Merge returns the smallest box covering e and o.
func (e Envelope3D) Merge(o Envelope3D) Envelope3D {
	if e.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return e
	}
	return Envelope3D{
		Envelope: Envelope{
			MinX: math.Min(e.MinX, o.MinX),
			MaxX: math.Max(e.MaxX, o.MaxX),
			MinY: math.Min(e.MinY, o.MinY),
			MaxY: math.Max(e.MaxY, o.MaxY),
		},
		MinZ: math.Min(e.MinZ, o.MinZ),
		MaxZ: math.Max(e.MaxZ, o.MaxZ),
	}
}

// Intersects reports whether e and o overlap in all three dimensions.
func (e Envelope3D) Intersects(o Envelope3D) bool {
	return e.Envelope.Intersects(o.Envelope) && e.MinZ <= o.MaxZ && e.MaxZ >= o.MinZ
}

// Intersect returns the overlap of e and o, or the empty box.
func (e Envelope3D) Intersect(o Envelope3D) Envelope3D {
	if !e.Intersects(o) {
		return Envelope3D{}
	}
	return Envelope3D{
		Envelope: e.Envelope.Intersect(o.Envelope),
		MinZ:     math.Max(e.MinZ, o.MinZ),
		MaxZ:     math.Min(e.MaxZ, o.MaxZ),
	}
}

// Contains reports whether o lies entirely within e.
func (e Envelope3D) Contains(o Envelope3D) bool {
	return e.Envelope.Contains(o.Envelope) && e.MinZ <= o.MinZ && e.MaxZ >= o.MaxZ
}

// Equal reports field-wise equality.
func (e Envelope3D) Equal(o Envelope3D) bool { return e == o }
