package native

import (
	"bytes"
	"testing"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFGBGeometryType(t *testing.T) {
	tests := []struct {
		name     string
		geom     orb.Geometry
		expected flattypes.GeometryType
	}{
		{"Point", orb.Point{1, 2}, flattypes.GeometryTypePoint},
		{"MultiPoint", orb.MultiPoint{{1, 2}, {3, 4}}, flattypes.GeometryTypeMultiPoint},
		{"LineString", orb.LineString{{0, 0}, {1, 1}}, flattypes.GeometryTypeLineString},
		{"MultiLineString", orb.MultiLineString{{{0, 0}, {1, 1}}}, flattypes.GeometryTypeMultiLineString},
		{"Ring", orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, flattypes.GeometryTypePolygon},
		{"Polygon", orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, flattypes.GeometryTypePolygon},
		{"MultiPolygon", orb.MultiPolygon{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, flattypes.GeometryTypeMultiPolygon},
		{"Collection", orb.Collection{orb.Point{1, 2}}, flattypes.GeometryTypeGeometryCollection},
		{"Bound", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}, flattypes.GeometryTypePolygon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fgbGeometryType(tt.geom))
		})
	}
}

func TestLayerGeometryType(t *testing.T) {
	same := []*Feature{
		{geom: NewGeometry(orb.Point{0, 0})},
		{},
		{geom: NewGeometry(orb.Point{1, 1})},
	}
	assert.Equal(t, flattypes.GeometryTypePoint, layerGeometryType(same))

	mixed := append(same, &Feature{geom: NewGeometry(orb.LineString{{0, 0}, {1, 1}})})
	assert.Equal(t, flattypes.GeometryTypeUnknown, layerGeometryType(mixed))
	assert.Equal(t, flattypes.GeometryTypeUnknown, layerGeometryType(nil))
}

func TestEncodeGeometry_Unsupported(t *testing.T) {
	builder := flatbuffers.NewBuilder(256)
	assert.Nil(t, encodeGeometry(nil, builder))
	assert.NotNil(t, encodeGeometry(orb.Point{1, 2}, builder))
}

func TestXYEnds(t *testing.T) {
	poly := orb.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{2, 2}, {8, 2}, {8, 8}, {2, 2}}, // hole
	}
	xy, ends := polygonXYEnds(poly)

	assert.Len(t, xy, 18)
	assert.Equal(t, []uint32{5, 9}, ends)
	assert.Equal(t, []float64{2, 2}, xy[10:12])
}

// roundTripGeometry writes geom as a one feature layer and reads it back.
func roundTripGeometry(t *testing.T, geom orb.Geometry) orb.Geometry {
	t.Helper()

	ds := newDataset("mem", nil, ModeCreate)
	l := ds.addLayer("geom")
	_, err := l.CreateFeature(NewGeometry(geom), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeFGB(&buf, l, nil))

	file, err := parseFGB(buf.Bytes())
	require.NoError(t, err)
	out := newDataset("mem", nil, "r").addLayer("geom")
	require.NoError(t, file.load(out))
	require.Equal(t, 1, out.FeatureCount())
	return out.features[0].geom.geom
}

func TestGeometryRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
		want orb.Geometry
	}{
		{"Point", orb.Point{1.5, 2.5}, nil},
		{"MultiPoint", orb.MultiPoint{{1, 2}, {3, 4}}, nil},
		{"LineString", orb.LineString{{0, 0}, {1, 1}, {2, 2}}, nil},
		{"MultiLineString", orb.MultiLineString{{{0, 0}, {1, 1}}, {{5, 5}, {6, 6}, {7, 5}}}, nil},
		{"Polygon", orb.Polygon{
			{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
			{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}},
		}, nil},
		{"MultiPolygon", orb.MultiPolygon{
			{{{0, 0}, {5, 0}, {5, 5}, {0, 5}, {0, 0}}},
			{{{10, 10}, {15, 10}, {15, 15}, {10, 15}, {10, 10}}},
		}, nil},
		{"Collection", orb.Collection{orb.Point{1, 2}, orb.LineString{{0, 0}, {1, 1}}}, nil},
		{"Bound", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}},
			orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}.ToPolygon()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.want
			if want == nil {
				want = tt.geom
			}
			got := roundTripGeometry(t, tt.geom)
			assert.True(t, orb.Equal(want, got), "got %v", got)
		})
	}
}
