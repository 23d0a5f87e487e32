package gdal

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tingold/orb-gdal/binding"
)

// Dataset wraps a native dataset.
type Dataset struct {
	native binding.Dataset
}

func wrapDataset(ds binding.Dataset) *Dataset {
	if ds == nil {
		return nil
	}
	return &Dataset{native: ds}
}

// Native returns the wrapped native dataset.
func (ds *Dataset) Native() binding.Dataset { return ds.native }

// Description is usually the file name.
func (ds *Dataset) Description() string { return ds.native.Description() }

// Driver returns the driver that opened or created the dataset.
func (ds *Dataset) Driver() binding.Driver { return ds.native.Driver() }

// Bands walks the raster bands, numbered from 1.
func (ds *Dataset) Bands() *Collection[binding.Band] {
	return newIndexed(KindDatasetBands, ds.native.Bands())
}

// Layers walks the vector layers.
func (ds *Dataset) Layers() *Collection[*Layer] {
	return newIndexed(KindDatasetLayers, mapIndexed(ds.native.Layers(), wrapLayer))
}

// Layer returns the layer with the given name, or nil.
func (ds *Dataset) Layer(name string) (*Layer, error) {
	var found *Layer
	err := ds.Layers().ForEach(func(l *Layer) error {
		if l.Name() == name {
			found = l
			return Stop
		}
		return nil
	})
	return found, err
}

// Close releases the native dataset.
func (ds *Dataset) Close() error { return ds.native.Close() }

// BandOverviews walks the overviews of a band.
func BandOverviews(b binding.Band) *Collection[binding.Band] {
	return newIndexed(KindRasterBandOverviews, b.Overviews())
}

// Layer wraps a native layer.
type Layer struct {
	native binding.Layer
}

func wrapLayer(l binding.Layer) *Layer { return &Layer{native: l} }

// Native returns the wrapped native layer.
func (l *Layer) Native() binding.Layer { return l.native }

// Name returns the layer name.
func (l *Layer) Name() string { return l.native.Name() }

// Features walks the layer's features with the native forward-only cursor.
func (l *Layer) Features() *Collection[*Feature] {
	return newSequential(KindLayerFeatures, mapCursor(l.native.Features(), wrapFeature))
}

// Fields returns the layer schema.
func (l *Layer) Fields() *LayerFields {
	schema := l.native.Fields()
	return &LayerFields{
		Collection: newIndexed[FieldDefn](KindLayerFields, schema),
		schema:     schema,
	}
}

// Extent returns the bounds of all features. force is passed to the
// native query unchanged.
func (l *Layer) Extent(force bool) (Envelope, error) {
	raw, err := l.native.Extent(force)
	if err != nil {
		return Envelope{}, err
	}
	return NewEnvelope(raw), nil
}

// SpatialFilterer is implemented by native layers that can restrict their
// cursor to a region.
type SpatialFilterer interface {
	SetSpatialFilter(b *orb.Bound)
}

// SetSpatialFilter restricts Features to those intersecting env, or clears
// the filter when env is nil. It reports false if the native layer cannot
// filter.
func (l *Layer) SetSpatialFilter(env *Envelope) bool {
	sf, ok := l.native.(SpatialFilterer)
	if !ok {
		return false
	}
	if env == nil {
		sf.SetSpatialFilter(nil)
		return true
	}
	b := env.Bound()
	sf.SetSpatialFilter(&b)
	return true
}

// LayerFields is a layer's schema.
type LayerFields struct {
	*Collection[FieldDefn]
	schema binding.FieldSchema
}

// Add adds one field definition.
func (lf *LayerFields) Add(def FieldDefn, opts ...FieldOption) error {
	return lf.schema.Add(def, buildFieldOpts(opts).approxOK)
}

// FromRecord adds one field per record entry, typed from its value.
// See AddFields for the failure semantics.
func (lf *LayerFields) FromRecord(rec Record, opts ...FieldOption) error {
	return AddFields(lf.schema, rec, buildFieldOpts(opts).approxOK)
}

// FromJSON adds one field per key of a JSON object, in key order.
func (lf *LayerFields) FromJSON(data []byte, opts ...FieldOption) error {
	rec, err := RecordFromJSON(data)
	if err != nil {
		return err
	}
	return lf.FromRecord(rec, opts...)
}

// FromProperties adds one field per GeoJSON property, in sorted key order.
func (lf *LayerFields) FromProperties(props geojson.Properties, opts ...FieldOption) error {
	return lf.FromRecord(RecordFromProperties(props), opts...)
}

// Names returns the field names in schema order.
func (lf *LayerFields) Names() ([]string, error) {
	var names []string
	err := lf.ForEach(func(def FieldDefn) error {
		names = append(names, def.Name)
		return nil
	})
	return names, err
}

// Feature wraps a native feature.
type Feature struct {
	native binding.Feature
}

func wrapFeature(f binding.Feature) *Feature { return &Feature{native: f} }

// Native returns the wrapped native feature.
func (f *Feature) Native() binding.Feature { return f.native }

// FID returns the feature id.
func (f *Feature) FID() int64 { return f.native.FID() }

// Fields walks the feature's field values in schema order.
func (f *Feature) Fields() *Collection[binding.FieldValue] {
	return newIndexed(KindFeatureFields, f.native.Fields())
}

// Definition walks the field definitions of the owning layer.
func (f *Feature) Definition() *Collection[FieldDefn] {
	return newIndexed(KindFeatureDefnFields, f.native.Definition())
}

// Properties returns the field values keyed by name.
func (f *Feature) Properties() (geojson.Properties, error) {
	props := make(geojson.Properties)
	err := f.Fields().ForEach(func(fv binding.FieldValue) error {
		props[fv.Name] = fv.Value
		return nil
	})
	return props, err
}

// Geometry returns the feature geometry, or nil.
func (f *Feature) Geometry() *Geometry {
	return WrapGeometry(f.native.Geometry())
}
