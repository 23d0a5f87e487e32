package native

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"

	"github.com/tingold/orb-gdal/binding"
)

// =============================================================================
// Test Data Generators
// =============================================================================

// generateGeometry creates a random geometry of the given kind within the
// world bounds.
func generateGeometry(r *rand.Rand, kind string) orb.Geometry {
	x := -180 + r.Float64()*359
	y := -90 + r.Float64()*179
	switch kind {
	case "linestring":
		ls := make(orb.LineString, 10)
		for j := range ls {
			ls[j] = orb.Point{x + float64(j)*0.01, y + float64(j)*0.01}
		}
		return ls
	case "polygon":
		radius := 0.01 + r.Float64()*0.05
		ring := make(orb.Ring, 33)
		for j := 0; j < 32; j++ {
			angle := 2 * math.Pi * float64(j) / 32
			ring[j] = orb.Point{x + radius*math.Cos(angle), y + radius*math.Sin(angle)}
		}
		ring[32] = ring[0]
		return orb.Polygon{ring}
	default:
		return orb.Point{x, y}
	}
}

// generateLayer fills a layer of the given driver with n random features.
func generateLayer(tb testing.TB, r *rand.Rand, ds *Dataset, n int, kind string, withProps bool) *Layer {
	tb.Helper()

	layer, err := ds.CreateLayer("bench")
	if err != nil {
		tb.Fatal(err)
	}
	if withProps {
		for _, def := range []binding.FieldDefn{
			{Name: "id", Type: binding.FieldTypeInteger},
			{Name: "name", Type: binding.FieldTypeString},
			{Name: "value", Type: binding.FieldTypeReal},
			{Name: "category", Type: binding.FieldTypeString},
		} {
			if err := layer.Fields().Add(def, false); err != nil {
				tb.Fatal(err)
			}
		}
	}

	for i := 0; i < n; i++ {
		var props map[string]any
		if withProps {
			props = map[string]any{
				"id":       i,
				"name":     fmt.Sprintf("Feature %d", i),
				"value":    r.Float64() * 1000,
				"category": fmt.Sprintf("cat_%d", r.Intn(10)),
			}
		}
		if _, err := layer.CreateFeature(NewGeometry(generateGeometry(r, kind)), props); err != nil {
			tb.Fatal(err)
		}
	}
	return layer
}

// writeDataset creates, fills and closes a dataset with the named driver.
func writeDataset(tb testing.TB, lib *Library, driver, path string, n int, kind string, withProps bool) {
	tb.Helper()

	drv, err := lib.Registry().Lookup(driver)
	if err != nil {
		tb.Fatal(err)
	}
	created, err := drv.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	r := rand.New(rand.NewSource(42)) // Reproducible results
	generateLayer(tb, r, created.(*Dataset), n, kind, withProps)
	if err := created.Close(); err != nil {
		tb.Fatal(err)
	}
}

// =============================================================================
// Size Comparison
// =============================================================================

func TestSizeComparison(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping size comparison in short mode")
	}

	t.Logf("%-12s | %-8s | %-15s | %-15s | %-10s", "Geometry", "Features", "GeoJSON (bytes)", "FGB (bytes)", "Savings")
	for _, kind := range []string{"point", "linestring", "polygon"} {
		for _, n := range []int{100, 1000} {
			dir := t.TempDir()
			lib := New()
			gj := filepath.Join(dir, "out.geojson")
			fgb := filepath.Join(dir, "out.fgb")
			writeDataset(t, lib, "GeoJSON", gj, n, kind, true)
			writeDataset(t, lib, "FlatGeobuf", fgb, n, kind, true)

			gjSize, fgbSize := fileSize(t, gj), fileSize(t, fgb)
			savings := float64(gjSize-fgbSize) / float64(gjSize) * 100
			t.Logf("%-12s | %-8d | %-15d | %-15d | %.1f%%", kind, n, gjSize, fgbSize, savings)
		}
	}
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return info.Size()
}

// =============================================================================
// Serialization Benchmarks
// =============================================================================

func BenchmarkWrite_FlatGeobuf_Points_1000(b *testing.B) {
	benchmarkFGBWrite(b, "point", 1000, false)
}

func BenchmarkWrite_FlatGeobuf_PointsProps_1000(b *testing.B) {
	benchmarkFGBWrite(b, "point", 1000, true)
}

func BenchmarkWrite_FlatGeobuf_Polygons_1000(b *testing.B) {
	benchmarkFGBWrite(b, "polygon", 1000, false)
}

func benchmarkFGBWrite(b *testing.B, kind string, n int, withProps bool) {
	r := rand.New(rand.NewSource(42))
	layer := generateLayer(b, r, newDataset("bench", &fgbDriver{}, ModeCreate), n, kind, withProps)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := writeFGB(&buf, layer, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// =============================================================================
// Deserialization Benchmarks
// =============================================================================

func BenchmarkOpen_GeoJSON_Points_1000(b *testing.B) {
	benchmarkOpen(b, "GeoJSON", "bench.geojson", "point", 1000)
}

func BenchmarkOpen_FlatGeobuf_Points_1000(b *testing.B) {
	benchmarkOpen(b, "FlatGeobuf", "bench.fgb", "point", 1000)
}

func BenchmarkOpen_GeoJSON_Polygons_1000(b *testing.B) {
	benchmarkOpen(b, "GeoJSON", "bench.geojson", "polygon", 1000)
}

func BenchmarkOpen_FlatGeobuf_Polygons_1000(b *testing.B) {
	benchmarkOpen(b, "FlatGeobuf", "bench.fgb", "polygon", 1000)
}

func benchmarkOpen(b *testing.B, driver, name, kind string, n int) {
	lib := New()
	path := filepath.Join(b.TempDir(), name)
	writeDataset(b, lib, driver, path, n, kind, true)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		ds, err := lib.Open(path, "r")
		if err != nil {
			b.Fatal(err)
		}
		if got := ds.(*Dataset).layers[0].FeatureCount(); got != n {
			b.Fatalf("expected %d features, got %d", n, got)
		}
		if err := ds.Close(); err != nil {
			b.Fatal(err)
		}
	}
}
