package native

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/tingold/orb-gdal/binding"
)

// geojsonDriver reads and writes GeoJSON FeatureCollections. A dataset
// has exactly one layer named after the file.
type geojsonDriver struct {
	lib *Library
}

func (d *geojsonDriver) Name() string { return string(binding.GeoJSON) }

func (d *geojsonDriver) Identify(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".geojson", ".json":
		return true
	default:
		return false
	}
}

func (d *geojsonDriver) Open(filename string, mode string) (binding.Dataset, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidData, filename, err)
	}

	ds := d.newDataset(filename, mode)
	layer := ds.addLayer(layerName(filename))
	for _, def := range inferGeoJSONSchema(fc.Features) {
		layer.schema.fields = append(layer.schema.fields, def)
	}
	for _, f := range fc.Features {
		var geom *Geometry
		if f.Geometry != nil {
			geom = NewGeometry(f.Geometry)
		}
		if _, err := layer.appendFeature(geom, f.Properties); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}

	d.lib.debug().Str("filename", filename).Int("features", layer.FeatureCount()).Msg("read geojson")
	return ds, nil
}

// Create makes an empty dataset written to filename on Close. args are
// ignored.
func (d *geojsonDriver) Create(filename string, args ...any) (binding.Dataset, error) {
	if filename == "" {
		return nil, fmt.Errorf("native: %s needs a filename", d.Name())
	}
	return d.newDataset(filename, ModeCreate), nil
}

func (d *geojsonDriver) newDataset(filename, mode string) *Dataset {
	ds := newDataset(filename, d, mode)
	ds.singleLayer = true
	ds.accept = acceptGeoJSONField
	ds.flush = d.write
	return ds
}

// write serializes the first layer as a FeatureCollection.
func (d *geojsonDriver) write(ds *Dataset) error {
	fc := geojson.NewFeatureCollection()
	if len(ds.layers) > 0 {
		l := ds.layers[0]
		for _, f := range l.features {
			var gf *geojson.Feature
			if f.geom != nil {
				gf = geojson.NewFeature(f.geom.geom)
			} else {
				gf = &geojson.Feature{Type: "Feature", Properties: geojson.Properties{}}
			}
			for i, def := range l.schema.fields {
				gf.Properties[def.Name] = geojsonValue(f.valueAt(i))
			}
			fc.Append(gf)
		}
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(ds.name, data, 0o644); err != nil {
		return err
	}
	d.lib.debug().Str("filename", ds.name).Int("features", len(fc.Features)).Msg("wrote geojson")
	return nil
}

// acceptGeoJSONField stores Binary fields as base64 strings, which GeoJSON
// cannot hold natively, and only when approximation is allowed.
func acceptGeoJSONField(def binding.FieldDefn, approxOK bool) (binding.FieldDefn, error) {
	if def.Type != binding.FieldTypeBinary {
		return def, nil
	}
	if !approxOK {
		return def, fmt.Errorf("%w: %s fields in GeoJSON", ErrUnsupportedType, def.Type)
	}
	def.Type = binding.FieldTypeString
	return def, nil
}

func geojsonValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return v
}

func layerName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// inferGeoJSONSchema derives fields from decoded properties. Names are
// sorted; types widen across features (Integer, Real, then String).
func inferGeoJSONSchema(features []*geojson.Feature) []binding.FieldDefn {
	var (
		names []string
		types = make(map[string]binding.FieldType)
		typed = make(map[string]bool)
	)
	for _, f := range features {
		for name, value := range f.Properties {
			if _, seen := types[name]; !seen {
				names = append(names, name)
				types[name] = binding.FieldTypeString // only nulls seen
			}
			ft, ok := geojsonFieldType(value)
			if !ok {
				continue
			}
			if typed[name] {
				ft = promoteFieldType(types[name], ft)
			}
			types[name], typed[name] = ft, true
		}
	}
	sort.Strings(names)

	defs := make([]binding.FieldDefn, 0, len(names))
	for _, name := range names {
		defs = append(defs, binding.FieldDefn{Name: name, Type: types[name]})
	}
	return defs
}

// geojsonFieldType maps a value decoded by encoding/json to a field type.
// ok is false for null.
func geojsonFieldType(value any) (binding.FieldType, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case bool:
		return binding.FieldTypeInteger, true
	case float64:
		if math.Mod(v, 1) == 0 {
			return binding.FieldTypeInteger, true
		}
		return binding.FieldTypeReal, true
	case string:
		return binding.FieldTypeString, true
	case []any:
		elem := binding.FieldTypeString
		for i, item := range v {
			ft, ok := geojsonFieldType(item)
			if !ok || ft.IsList() {
				return binding.FieldTypeString, true
			}
			if i == 0 {
				elem = ft
			} else {
				elem = promoteFieldType(elem, ft)
			}
		}
		switch elem {
		case binding.FieldTypeInteger:
			return binding.FieldTypeIntegerList, true
		case binding.FieldTypeReal:
			return binding.FieldTypeRealList, true
		default:
			return binding.FieldTypeStringList, true
		}
	default:
		// objects are kept as their JSON text
		return binding.FieldTypeString, true
	}
}

// promoteFieldType returns the more general type when two features
// disagree.
func promoteFieldType(a, b binding.FieldType) binding.FieldType {
	if a == b {
		return a
	}
	rank := map[binding.FieldType]int{
		binding.FieldTypeInteger:     0,
		binding.FieldTypeReal:        1,
		binding.FieldTypeIntegerList: 2,
		binding.FieldTypeRealList:    3,
	}
	ra, okA := rank[a]
	rb, okB := rank[b]
	if okA && okB && a.IsList() == b.IsList() {
		if ra > rb {
			return a
		}
		return b
	}
	return binding.FieldTypeString
}
