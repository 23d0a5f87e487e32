package native

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/tingold/orb-gdal/binding"
)

// Layer is an ordered set of features sharing a schema.
type Layer struct {
	name     string
	ds       *Dataset
	schema   *Schema
	features []*Feature
	nextFID  int64

	// cursor state
	pos     int
	matched []int

	filter *orb.Bound
	index  *spatialIndex
}

func newLayer(ds *Dataset, name string, accept acceptFunc) *Layer {
	l := &Layer{name: name, ds: ds}
	l.schema = newSchema(accept, ds.checkWritable)
	return l
}

// Name implements binding.Layer.
func (l *Layer) Name() string { return l.name }

// Fields implements binding.Layer.
func (l *Layer) Fields() binding.FieldSchema { return l.schema }

// Schema returns the concrete schema.
func (l *Layer) Schema() *Schema { return l.schema }

// Features implements binding.Layer.
func (l *Layer) Features() binding.Cursor[binding.Feature] {
	return layerCursor{l}
}

// FeatureCount returns the number of features ignoring any spatial filter.
func (l *Layer) FeatureCount() int { return len(l.features) }

// Feature returns the feature with the given id.
func (l *Layer) Feature(fid int64) (*Feature, bool) {
	for _, f := range l.features {
		if f.fid == fid {
			return f, true
		}
	}
	return nil, false
}

// CreateFeature appends a feature. values are keyed by field name and
// converted to the field types; unknown names are an error.
func (l *Layer) CreateFeature(geom *Geometry, values map[string]any) (*Feature, error) {
	if err := l.ds.checkWritable(); err != nil {
		return nil, err
	}
	return l.appendFeature(geom, values)
}

// appendFeature skips the writability check; drivers use it while loading.
func (l *Layer) appendFeature(geom *Geometry, values map[string]any) (*Feature, error) {
	f := &Feature{fid: l.nextFID, schema: l.schema, geom: geom}
	for name, v := range values {
		if err := f.SetValue(name, v); err != nil {
			return nil, err
		}
	}
	l.nextFID++
	l.features = append(l.features, f)
	l.index = nil
	return f, nil
}

// Extent implements binding.Layer. The extent is always computed, so
// force has no effect.
func (l *Layer) Extent(force bool) (binding.RawBounds, error) {
	var (
		b     orb.Bound
		found bool
	)
	for _, f := range l.features {
		if f.geom == nil {
			continue
		}
		fb := f.geom.geom.Bound()
		if !found {
			b, found = fb, true
			continue
		}
		b = b.Union(fb)
	}
	if !found {
		return binding.RawBounds{}, ErrEmptyLayer
	}
	return binding.RawBounds{MinX: b.Min[0], MaxX: b.Max[0], MinY: b.Min[1], MaxY: b.Max[1]}, nil
}

// SetSpatialFilter restricts the cursor to features whose bounds
// intersect b. A nil b clears the filter. The cursor is reset.
func (l *Layer) SetSpatialFilter(b *orb.Bound) {
	if b == nil {
		l.filter = nil
	} else {
		nb := *b
		l.filter = &nb
	}
	l.ResetReading()
}

// ResetReading rewinds the cursor.
func (l *Layer) ResetReading() {
	l.pos = 0
	l.matched = nil
}

// candidates returns the feature positions the cursor walks, in order.
func (l *Layer) candidates() []int {
	if l.filter == nil {
		out := make([]int, len(l.features))
		for i := range out {
			out[i] = i
		}
		return out
	}
	if l.index == nil {
		l.index = buildSpatialIndex(l.features)
	}
	return l.index.search(*l.filter, l.features)
}

func (l *Layer) first() (*Feature, bool) {
	l.matched = l.candidates()
	l.pos = 0
	return l.next()
}

func (l *Layer) next() (*Feature, bool) {
	if l.matched == nil || l.pos >= len(l.matched) {
		return nil, false
	}
	f := l.features[l.matched[l.pos]]
	l.pos++
	return f, true
}

// layerCursor adapts a Layer to binding.Cursor.
type layerCursor struct {
	l *Layer
}

func (c layerCursor) First() (binding.Feature, bool, error) {
	f, ok := c.l.first()
	if !ok {
		return nil, false, nil
	}
	return f, true, nil
}

func (c layerCursor) Next() (binding.Feature, bool, error) {
	f, ok := c.l.next()
	if !ok {
		return nil, false, nil
	}
	return f, true, nil
}

func (c layerCursor) ResetReading() { c.l.ResetReading() }

func (c layerCursor) Count() int { return c.l.FeatureCount() }

// spatialIndex provides R-tree backed spatial filtering.
type spatialIndex struct {
	rtree *rtreego.Rtree
}

// indexedFeature wraps a feature position for R-tree storage.
type indexedFeature struct {
	pos  int
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial interface.
func (f *indexedFeature) Bounds() rtreego.Rect { return f.rect }

// R-tree rectangles need non-zero sides; points get a small square.
const rectEpsilon = 1e-9

func boundToRect(b orb.Bound) rtreego.Rect {
	point := rtreego.Point{b.Min[0], b.Min[1]}
	w, h := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	if w < rectEpsilon {
		w = rectEpsilon
	}
	if h < rectEpsilon {
		h = rectEpsilon
	}
	rect, _ := rtreego.NewRect(point, []float64{w, h})
	return rect
}

func buildSpatialIndex(features []*Feature) *spatialIndex {
	rtree := rtreego.NewTree(2, 25, 50)
	for i, f := range features {
		if f.geom == nil {
			continue
		}
		rtree.Insert(&indexedFeature{pos: i, rect: boundToRect(f.geom.geom.Bound())})
	}
	return &spatialIndex{rtree: rtree}
}

// search returns the positions of features intersecting b, in feature
// order. The R-tree result is refined with an exact bound test.
func (si *spatialIndex) search(b orb.Bound, features []*Feature) []int {
	// rtreego treats touching rectangles as disjoint
	q := orb.Bound{
		Min: orb.Point{b.Min[0] - rectEpsilon, b.Min[1] - rectEpsilon},
		Max: orb.Point{b.Max[0] + rectEpsilon, b.Max[1] + rectEpsilon},
	}
	spatials := si.rtree.SearchIntersect(boundToRect(q))
	out := make([]int, 0, len(spatials))
	for _, s := range spatials {
		pos := s.(*indexedFeature).pos
		if features[pos].geom.geom.Bound().Intersects(b) {
			out = append(out, pos)
		}
	}
	sort.Ints(out)
	return out
}
