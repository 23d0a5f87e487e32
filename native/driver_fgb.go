package native

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tingold/orb-gdal/binding"
)

// fgbDriver reads and writes single-layer FlatGeobuf files.
type fgbDriver struct {
	lib *Library
}

func (d *fgbDriver) Name() string { return string(binding.FlatGeobuf) }

func (d *fgbDriver) Identify(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".fgb")
}

// Open reads the whole file. Read-only datasets are memory-mapped; in
// update mode the file is read into memory so it can be rewritten on
// Close.
func (d *fgbDriver) Open(filename string, mode string) (binding.Dataset, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}

	var (
		file *fgbFile
		err  error
	)
	if mode == "r" {
		file, err = openFGB(filename)
	} else {
		var data []byte
		if data, err = os.ReadFile(filename); err == nil {
			file, err = parseFGB(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	ds := d.newDataset(filename, mode)
	ds.crs = file.crs()
	name := file.name()
	if name == "" {
		name = layerName(filename)
	}
	layer := ds.addLayer(name)
	if err := file.load(layer); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	d.lib.debug().Str("filename", filename).Int("features", layer.FeatureCount()).Msg("read flatgeobuf")
	return ds, nil
}

// Create makes an empty dataset written to filename on Close. args are
// ignored.
func (d *fgbDriver) Create(filename string, args ...any) (binding.Dataset, error) {
	if filename == "" {
		return nil, fmt.Errorf("native: %s needs a filename", d.Name())
	}
	return d.newDataset(filename, ModeCreate), nil
}

func (d *fgbDriver) newDataset(filename, mode string) *Dataset {
	ds := newDataset(filename, d, mode)
	ds.singleLayer = true
	ds.accept = acceptFGBField
	ds.flush = d.write
	return ds
}

// write replaces the file through a temporary file in the same directory.
func (d *fgbDriver) write(ds *Dataset) error {
	layer := &Layer{name: layerName(ds.name), schema: newSchema(nil, nil)}
	if len(ds.layers) > 0 {
		layer = ds.layers[0]
	}

	tmp, err := os.CreateTemp(filepath.Dir(ds.name), ".fgb-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := writeFGB(tmp, layer, ds.crs); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), ds.name); err != nil {
		return err
	}

	d.lib.debug().Str("filename", ds.name).Int("features", layer.FeatureCount()).Msg("wrote flatgeobuf")
	return nil
}
