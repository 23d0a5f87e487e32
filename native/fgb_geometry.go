package native

import (
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

// fgbGeometryType maps an orb geometry to its FlatGeobuf type. Rings are
// written as single-ring polygons.
func fgbGeometryType(geom orb.Geometry) flattypes.GeometryType {
	switch geom.(type) {
	case orb.Point:
		return flattypes.GeometryTypePoint
	case orb.MultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case orb.LineString:
		return flattypes.GeometryTypeLineString
	case orb.MultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case orb.Ring, orb.Polygon, orb.Bound:
		return flattypes.GeometryTypePolygon
	case orb.MultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	case orb.Collection:
		return flattypes.GeometryTypeGeometryCollection
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// layerGeometryType is the common type of all features, Unknown when they
// differ.
func layerGeometryType(features []*Feature) flattypes.GeometryType {
	gt := flattypes.GeometryTypeUnknown
	first := true
	for _, f := range features {
		if f.geom == nil {
			continue
		}
		t := fgbGeometryType(f.geom.geom)
		if first {
			gt, first = t, false
		} else if t != gt {
			return flattypes.GeometryTypeUnknown
		}
	}
	return gt
}

// encodeGeometry builds the FlatGeobuf geometry for geom. Z values are not
// written. It returns nil for unsupported geometries.
func encodeGeometry(geom orb.Geometry, builder *flatbuffers.Builder) *writer.Geometry {
	if b, ok := geom.(orb.Bound); ok {
		geom = b.ToPolygon()
	}
	g := writer.NewGeometry(builder)
	g.SetType(fgbGeometryType(geom))

	switch v := geom.(type) {
	case orb.Point:
		g.SetXY([]float64{v[0], v[1]})
	case orb.MultiPoint:
		g.SetXY(appendXY(nil, v))
	case orb.LineString:
		g.SetXY(appendXY(nil, v))
	case orb.MultiLineString:
		lines := make([][]orb.Point, len(v))
		for i, ls := range v {
			lines[i] = ls
		}
		xy, ends := xyEnds(lines)
		g.SetXY(xy)
		g.SetEnds(ends)
	case orb.Ring:
		xy, ends := xyEnds([][]orb.Point{v})
		g.SetXY(xy)
		g.SetEnds(ends)
	case orb.Polygon:
		xy, ends := polygonXYEnds(v)
		g.SetXY(xy)
		g.SetEnds(ends)
	case orb.MultiPolygon:
		parts := make([]writer.Geometry, 0, len(v))
		for _, poly := range v {
			parts = append(parts, *encodeGeometry(poly, builder))
		}
		g.SetParts(parts)
	case orb.Collection:
		parts := make([]writer.Geometry, 0, len(v))
		for _, child := range v {
			if pg := encodeGeometry(child, builder); pg != nil {
				parts = append(parts, *pg)
			}
		}
		g.SetParts(parts)
	default:
		return nil
	}
	return g
}

func appendXY(xy []float64, pts []orb.Point) []float64 {
	for _, p := range pts {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

// xyEnds flattens point runs into one coordinate array with cumulative
// end offsets.
func xyEnds(runs [][]orb.Point) ([]float64, []uint32) {
	var (
		xy   []float64
		ends = make([]uint32, 0, len(runs))
		end  uint32
	)
	for _, run := range runs {
		xy = appendXY(xy, run)
		end += uint32(len(run))
		ends = append(ends, end)
	}
	return xy, ends
}

func polygonXYEnds(poly orb.Polygon) ([]float64, []uint32) {
	rings := make([][]orb.Point, len(poly))
	for i, r := range poly {
		rings[i] = r
	}
	return xyEnds(rings)
}

// decodeGeometry converts a FlatGeobuf geometry to a native one. Z values
// are kept when every part carries one per vertex.
func decodeGeometry(fg *flattypes.Geometry) *Geometry {
	var z []float64
	geom, complete := decodeOrb(fg, &z)
	if geom == nil {
		return nil
	}
	out := &Geometry{geom: geom}
	if complete && len(z) > 0 && len(z) == countVertices(geom) {
		out.z = z
	}
	return out
}

// decodeOrb appends the Z values of fg to z. complete is false when a part
// lacks Z.
func decodeOrb(fg *flattypes.Geometry, z *[]float64) (orb.Geometry, bool) {
	switch fg.Type() {
	case flattypes.GeometryTypePoint:
		pts := points(fg, 0, fg.XyLength()/2)
		if len(pts) == 0 {
			return orb.Point{}, appendZ(fg, z)
		}
		return pts[0], appendZ(fg, z)
	case flattypes.GeometryTypeMultiPoint:
		return orb.MultiPoint(points(fg, 0, fg.XyLength()/2)), appendZ(fg, z)
	case flattypes.GeometryTypeLineString:
		return orb.LineString(points(fg, 0, fg.XyLength()/2)), appendZ(fg, z)
	case flattypes.GeometryTypeMultiLineString:
		runs := splitRuns(fg)
		mls := make(orb.MultiLineString, len(runs))
		for i, r := range runs {
			mls[i] = r
		}
		return mls, appendZ(fg, z)
	case flattypes.GeometryTypePolygon:
		return decodePolygon(fg), appendZ(fg, z)
	case flattypes.GeometryTypeMultiPolygon:
		if fg.PartsLength() == 0 {
			return orb.MultiPolygon{decodePolygon(fg)}, appendZ(fg, z)
		}
		mp := make(orb.MultiPolygon, 0, fg.PartsLength())
		complete := true
		for i := 0; i < fg.PartsLength(); i++ {
			var part flattypes.Geometry
			if fg.Parts(&part, i) {
				mp = append(mp, decodePolygon(&part))
				complete = appendZ(&part, z) && complete
			}
		}
		return mp, complete
	case flattypes.GeometryTypeGeometryCollection:
		coll := make(orb.Collection, 0, fg.PartsLength())
		complete := true
		for i := 0; i < fg.PartsLength(); i++ {
			var part flattypes.Geometry
			if !fg.Parts(&part, i) {
				continue
			}
			child, ok := decodeOrb(&part, z)
			if child != nil {
				coll = append(coll, child)
				complete = ok && complete
			}
		}
		return coll, complete
	default:
		return nil, false
	}
}

func appendZ(fg *flattypes.Geometry, z *[]float64) bool {
	n := fg.ZLength()
	if n == 0 || n != fg.XyLength()/2 {
		return false
	}
	for i := 0; i < n; i++ {
		*z = append(*z, fg.Z(i))
	}
	return true
}

// points reads vertices [start, end) of fg.
func points(fg *flattypes.Geometry, start, end int) []orb.Point {
	if n := fg.XyLength() / 2; end > n {
		end = n
	}
	if start >= end {
		return nil
	}
	pts := make([]orb.Point, 0, end-start)
	for i := start; i < end; i++ {
		pts = append(pts, orb.Point{fg.Xy(2 * i), fg.Xy(2*i + 1)})
	}
	return pts
}

// splitRuns splits the vertices of fg at its ends. Without ends all
// vertices form one run.
func splitRuns(fg *flattypes.Geometry) [][]orb.Point {
	n := fg.XyLength() / 2
	if fg.EndsLength() == 0 {
		if n == 0 {
			return nil
		}
		return [][]orb.Point{points(fg, 0, n)}
	}
	runs := make([][]orb.Point, 0, fg.EndsLength())
	start := 0
	for i := 0; i < fg.EndsLength(); i++ {
		end := int(fg.Ends(i))
		runs = append(runs, points(fg, start, end))
		start = end
	}
	return runs
}

func decodePolygon(fg *flattypes.Geometry) orb.Polygon {
	runs := splitRuns(fg)
	poly := make(orb.Polygon, len(runs))
	for i, r := range runs {
		poly[i] = r
	}
	return poly
}
