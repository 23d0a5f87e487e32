package native

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tingold/orb-gdal/binding"
)

// createFGB writes a 10x10 grid of points with x, y and label fields.
func createFGB(t *testing.T, lib *Library, path string) {
	t.Helper()

	drv, err := lib.Registry().Lookup("FlatGeobuf")
	require.NoError(t, err)
	created, err := drv.Create(path)
	require.NoError(t, err)

	ds := created.(*Dataset)
	require.NoError(t, ds.SetCRS(WGS84()))
	layer, err := ds.CreateLayer("grid")
	require.NoError(t, err)
	for _, def := range []binding.FieldDefn{
		{Name: "x", Type: binding.FieldTypeInteger},
		{Name: "y", Type: binding.FieldTypeInteger},
		{Name: "label", Type: binding.FieldTypeString},
	} {
		require.NoError(t, layer.Fields().Add(def, false))
	}
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			_, err := layer.CreateFeature(NewGeometry(orb.Point{float64(x), float64(y)}), map[string]any{
				"x": x, "y": y, "label": "point",
			})
			require.NoError(t, err)
		}
	}
	require.NoError(t, ds.Close())
}

func TestFGB_RoundTrip(t *testing.T) {
	lib := New()
	path := filepath.Join(t.TempDir(), "grid.fgb")
	createFGB(t, lib, path)

	opened, err := lib.Open(path, "r")
	require.NoError(t, err)
	defer opened.Close()

	ds := opened.(*Dataset)
	assert.Equal(t, "FlatGeobuf", ds.Driver().Name())
	require.NotNil(t, ds.CRS())
	assert.Equal(t, 4326, ds.CRS().Code)

	require.Equal(t, 1, ds.Layers().Count())
	layer, ok := ds.Layer("grid")
	require.True(t, ok)
	assert.Equal(t, 100, layer.FeatureCount())

	names := make([]string, 0)
	for _, def := range layer.Schema().Fields() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"x", "y", "label"}, names)

	// read order follows the index, so compare as a set
	var cells []int
	for _, f := range layer.features {
		x, _ := f.Value("x")
		y, _ := f.Value("y")
		label, _ := f.Value("label")
		assert.Equal(t, "point", label)
		pt := f.geom.geom.(orb.Point)
		assert.Equal(t, float64(x.(int64)), pt[0])
		assert.Equal(t, float64(y.(int64)), pt[1])
		cells = append(cells, int(x.(int64))*10+int(y.(int64)))
	}
	sort.Ints(cells)
	for i, c := range cells {
		require.Equal(t, i, c)
	}

	ext, err := layer.Extent(true)
	require.NoError(t, err)
	assert.Equal(t, binding.RawBounds{MinX: 0, MaxX: 9, MinY: 0, MaxY: 9}, ext)
}

func TestFGB_ReadOnly(t *testing.T) {
	lib := New()
	path := filepath.Join(t.TempDir(), "grid.fgb")
	createFGB(t, lib, path)

	ds, err := lib.Open(path, "r")
	require.NoError(t, err)
	layer := ds.(*Dataset).layers[0]

	_, err = layer.CreateFeature(NewGeometry(orb.Point{1, 1}), nil)
	assert.ErrorIs(t, err, ErrReadOnly)
	err = layer.Fields().Add(binding.FieldDefn{Name: "z", Type: binding.FieldTypeReal}, false)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestFGB_Update(t *testing.T) {
	lib := New()
	path := filepath.Join(t.TempDir(), "grid.fgb")
	createFGB(t, lib, path)

	ds, err := lib.Open(path, "r+")
	require.NoError(t, err)
	layer := ds.(*Dataset).layers[0]
	_, err = layer.CreateFeature(NewGeometry(orb.Point{50, 50}), map[string]any{"label": "extra"})
	require.NoError(t, err)
	require.NoError(t, ds.Close())

	reopened, err := lib.Open(path, "r")
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 101, reopened.(*Dataset).layers[0].FeatureCount())
}

func TestFGB_ListFieldNeedsApprox(t *testing.T) {
	lib := New()
	drv, err := lib.Registry().Lookup("FlatGeobuf")
	require.NoError(t, err)
	created, err := drv.Create(filepath.Join(t.TempDir(), "lists.fgb"))
	require.NoError(t, err)
	layer, err := created.(*Dataset).CreateLayer("lists")
	require.NoError(t, err)

	def := binding.FieldDefn{Name: "tags", Type: binding.FieldTypeStringList}
	assert.ErrorIs(t, layer.Fields().Add(def, false), ErrUnsupportedType)
	require.NoError(t, layer.Fields().Add(def, true))

	f, err := layer.CreateFeature(NewGeometry(orb.Point{0, 0}), map[string]any{"tags": []string{"a", "b"}})
	require.NoError(t, err)
	v, _ := f.Value("tags")
	assert.Equal(t, `["a","b"]`, v)
}

func TestFGB_SingleLayer(t *testing.T) {
	lib := New()
	drv, err := lib.Registry().Lookup("flatgeobuf")
	require.NoError(t, err)
	created, err := drv.Create(filepath.Join(t.TempDir(), "one.fgb"))
	require.NoError(t, err)

	ds := created.(*Dataset)
	_, err = ds.CreateLayer("a")
	require.NoError(t, err)
	_, err = ds.CreateLayer("b")
	assert.Error(t, err)
}

func TestFGB_EmptyLayer(t *testing.T) {
	lib := New()
	path := filepath.Join(t.TempDir(), "empty.fgb")
	drv, err := lib.Registry().Lookup("FlatGeobuf")
	require.NoError(t, err)
	created, err := drv.Create(path)
	require.NoError(t, err)
	require.NoError(t, created.Close())

	ds, err := lib.Open(path, "r")
	require.NoError(t, err)
	defer ds.Close()
	layer := ds.(*Dataset).layers[0]
	assert.Equal(t, "empty", layer.Name())
	assert.Equal(t, 0, layer.FeatureCount())
	_, err = layer.Extent(true)
	assert.ErrorIs(t, err, ErrEmptyLayer)
}

func TestFGB_InvalidFile(t *testing.T) {
	lib := New()
	path := filepath.Join(t.TempDir(), "bad.fgb")
	require.NoError(t, os.WriteFile(path, []byte("not a flatgeobuf"), 0o644))

	_, err := lib.Open(path, "r")
	assert.Error(t, err)

	_, err = lib.Open(filepath.Join(t.TempDir(), "missing.fgb"), "r")
	assert.Error(t, err)
}

func TestParseFGB_Empty(t *testing.T) {
	_, err := parseFGB([]byte{})
	assert.Error(t, err)
}
