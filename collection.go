package gdal

import (
	"errors"
	"fmt"

	"github.com/tingold/orb-gdal/binding"
)

// Kind identifies what a collection holds.
type Kind int

const (
	KindLayerFields Kind = iota
	KindFeatureFields
	KindDatasetLayers
	KindFeatureDefnFields
	KindPolygonRings
	KindLineStringPoints
	KindGeometryChildren
	KindRasterBandOverviews
	KindDrivers
	KindDatasetBands
	KindLayerFeatures
)

var kindNames = map[Kind]string{
	KindLayerFields:         "LayerFields",
	KindFeatureFields:       "FeatureFields",
	KindDatasetLayers:       "DatasetLayers",
	KindFeatureDefnFields:   "FeatureDefnFields",
	KindPolygonRings:        "PolygonRings",
	KindLineStringPoints:    "LineStringPoints",
	KindGeometryChildren:    "GeometryCollectionChildren",
	KindRasterBandOverviews: "RasterBandOverviews",
	KindDrivers:             "Drivers",
	KindDatasetBands:        "DatasetBands",
	KindLayerFeatures:       "LayerFeatures",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Strategy is how a collection kind is walked natively.
type Strategy int

const (
	ZeroBased Strategy = iota // Get(0) .. Get(Count()-1)
	OneBased                  // Get(1) .. Get(Count())
	Sequential                // First(), Next() until exhausted
)

func (s Strategy) String() string {
	switch s {
	case ZeroBased:
		return "ZeroBased"
	case OneBased:
		return "OneBased"
	case Sequential:
		return "Sequential"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// kindStrategies is the fixed kind to strategy mapping.
var kindStrategies = map[Kind]Strategy{
	KindLayerFields:         ZeroBased,
	KindFeatureFields:       ZeroBased,
	KindDatasetLayers:       ZeroBased,
	KindFeatureDefnFields:   ZeroBased,
	KindPolygonRings:        ZeroBased,
	KindLineStringPoints:    ZeroBased,
	KindGeometryChildren:    ZeroBased,
	KindRasterBandOverviews: ZeroBased,
	KindDrivers:             ZeroBased,
	KindDatasetBands:        OneBased,
	KindLayerFeatures:       Sequential,
}

// Strategy returns the iteration strategy of k.
func (k Kind) Strategy() Strategy {
	return kindStrategies[k]
}

// Collection is a uniform view over a native sub-collection.
//
// For Sequential collections the native cursor position is shared: do not
// interleave two iterations over the same collection.
type Collection[T any] struct {
	kind  Kind
	count func() int
	each  func(visit func(T) error) error
}

// newIndexed builds a collection over a random access source. It panics if
// kind is Sequential; the mapping is fixed so that is a programming error.
func newIndexed[T any](kind Kind, src binding.Indexed[T]) *Collection[T] {
	var first int
	switch kind.Strategy() {
	case ZeroBased:
		first = 0
	case OneBased:
		first = 1
	default:
		panic(fmt.Sprintf("gdal: %v is not an indexed collection", kind))
	}

	return &Collection[T]{
		kind:  kind,
		count: src.Count,
		each: func(visit func(T) error) error {
			n := src.Count()
			for i := first; i < first+n; i++ {
				item, err := src.Get(i)
				if err != nil {
					return err
				}
				if err := visit(item); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// newSequential builds a collection over a native cursor.
func newSequential[T any](kind Kind, src binding.Cursor[T]) *Collection[T] {
	if kind.Strategy() != Sequential {
		panic(fmt.Sprintf("gdal: %v is not a cursor collection", kind))
	}

	count := func() int { return -1 }
	if c, ok := src.(binding.Counter); ok {
		count = c.Count
	}

	return &Collection[T]{
		kind:  kind,
		count: count,
		each: func(visit func(T) error) error {
			if r, ok := src.(binding.Resetter); ok {
				defer r.ResetReading()
			}

			item, ok, err := src.First()
			for ; err == nil && ok; item, ok, err = src.Next() {
				if err := visit(item); err != nil {
					return err
				}
			}
			return err
		},
	}
}

// Kind returns what the collection holds.
func (c *Collection[T]) Kind() Kind { return c.kind }

// Strategy returns how the collection is walked.
func (c *Collection[T]) Strategy() Strategy { return c.kind.Strategy() }

// Count returns the current number of elements, or -1 for a cursor that
// does not know its length.
func (c *Collection[T]) Count() int { return c.count() }

// ForEach calls fn for every element in natural order. Returning Stop from
// fn ends the iteration and ForEach returns nil; any other error ends it
// and is returned unchanged, as are errors from the native accessor.
func (c *Collection[T]) ForEach(fn func(T) error) error {
	err := c.each(fn)
	if errors.Is(err, Stop) {
		return nil
	}
	return err
}

// ToSlice returns all elements in ForEach order.
func (c *Collection[T]) ToSlice() ([]T, error) {
	var items []T
	if n := c.Count(); n > 0 {
		items = make([]T, 0, n)
	}
	err := c.ForEach(func(item T) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// mappedIndexed presents src with each element passed through wrap.
type mappedIndexed[N, T any] struct {
	src  binding.Indexed[N]
	wrap func(N) T
}

func mapIndexed[N, T any](src binding.Indexed[N], wrap func(N) T) binding.Indexed[T] {
	return mappedIndexed[N, T]{src: src, wrap: wrap}
}

func (m mappedIndexed[N, T]) Count() int { return m.src.Count() }

func (m mappedIndexed[N, T]) Get(i int) (T, error) {
	item, err := m.src.Get(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.wrap(item), nil
}

// mappedCursor presents a cursor with each element passed through wrap.
// It forwards ResetReading and Count when the source has them.
type mappedCursor[N, T any] struct {
	src  binding.Cursor[N]
	wrap func(N) T
}

func mapCursor[N, T any](src binding.Cursor[N], wrap func(N) T) binding.Cursor[T] {
	return &mappedCursor[N, T]{src: src, wrap: wrap}
}

func (m *mappedCursor[N, T]) First() (T, bool, error) {
	return m.convert(m.src.First())
}

func (m *mappedCursor[N, T]) Next() (T, bool, error) {
	return m.convert(m.src.Next())
}

func (m *mappedCursor[N, T]) convert(item N, ok bool, err error) (T, bool, error) {
	var zero T
	if err != nil || !ok {
		return zero, ok, err
	}
	return m.wrap(item), true, nil
}

func (m *mappedCursor[N, T]) ResetReading() {
	if r, ok := m.src.(binding.Resetter); ok {
		r.ResetReading()
	}
}

func (m *mappedCursor[N, T]) Count() int {
	if c, ok := m.src.(binding.Counter); ok {
		return c.Count()
	}
	return -1
}
