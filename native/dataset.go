package native

import (
	"fmt"

	"github.com/tingold/orb-gdal/binding"
)

// Dataset is an open native dataset. It holds raster bands, vector
// layers, or both.
type Dataset struct {
	name   string
	driver binding.Driver
	mode   string

	bands  []*Band
	layers []*Layer

	crs          *CRS
	xSize, ySize int
	metadata     map[string]string

	// flush persists the dataset on Close; nil for read-only datasets.
	flush  func(*Dataset) error
	closed bool

	// singleLayer limits the dataset to one layer (GeoJSON, FlatGeobuf).
	singleLayer bool
	accept      acceptFunc
}

func newDataset(name string, drv binding.Driver, mode string) *Dataset {
	return &Dataset{name: name, driver: drv, mode: mode}
}

// Description implements binding.Dataset.
func (d *Dataset) Description() string { return d.name }

// Driver implements binding.Dataset.
func (d *Dataset) Driver() binding.Driver { return d.driver }

// Bands implements binding.Dataset. Band numbers start at 1.
func (d *Dataset) Bands() binding.Indexed[binding.Band] {
	return bandList(d.bands)
}

// Band returns band n (one-based).
func (d *Dataset) Band(n int) (*Band, error) {
	if n < 1 || n > len(d.bands) {
		return nil, fmt.Errorf("%w: band %d", ErrOutOfRange, n)
	}
	return d.bands[n-1], nil
}

// Layers implements binding.Dataset.
func (d *Dataset) Layers() binding.Indexed[binding.Layer] {
	return layerList(d.layers)
}

// Layer returns the named layer.
func (d *Dataset) Layer(name string) (*Layer, bool) {
	for _, l := range d.layers {
		if l.name == name {
			return l, true
		}
	}
	return nil, false
}

// RasterSize returns the raster dimensions, 0 for vector datasets.
func (d *Dataset) RasterSize() (x, y int) { return d.xSize, d.ySize }

// Metadata returns a creation option by upper-case key, or "".
func (d *Dataset) Metadata(key string) string { return d.metadata[key] }

// CRS returns the coordinate reference system, or nil.
func (d *Dataset) CRS() *CRS { return d.crs }

// SetCRS sets the coordinate reference system.
func (d *Dataset) SetCRS(crs *CRS) error {
	if err := d.checkWritable(); err != nil {
		return err
	}
	d.crs = crs
	return nil
}

// CreateLayer adds an empty layer.
func (d *Dataset) CreateLayer(name string) (*Layer, error) {
	if err := d.checkWritable(); err != nil {
		return nil, err
	}
	if d.singleLayer && len(d.layers) > 0 {
		return nil, fmt.Errorf("native: %s datasets hold a single layer", d.driver.Name())
	}
	if _, exists := d.Layer(name); exists {
		return nil, fmt.Errorf("native: layer %q already exists", name)
	}
	return d.addLayer(name), nil
}

func (d *Dataset) addLayer(name string) *Layer {
	l := newLayer(d, name, d.accept)
	d.layers = append(d.layers, l)
	return l
}

// Writable reports whether the dataset accepts changes.
func (d *Dataset) Writable() bool { return d.mode == "r+" || d.mode == ModeCreate }

func (d *Dataset) checkWritable() error {
	if d.closed {
		return ErrClosed
	}
	if !d.Writable() {
		return ErrReadOnly
	}
	return nil
}

// Close implements binding.Dataset. Writable datasets are flushed. Closing
// twice is a no-op.
func (d *Dataset) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.flush != nil && d.Writable() {
		return d.flush(d)
	}
	return nil
}

// ModeCreate is the mode of datasets made by Driver.Create.
const ModeCreate = "w"

type bandList []*Band

func (b bandList) Count() int { return len(b) }

func (b bandList) Get(n int) (binding.Band, error) {
	if n < 1 || n > len(b) {
		return nil, fmt.Errorf("%w: band %d", ErrOutOfRange, n)
	}
	return b[n-1], nil
}

type layerList []*Layer

func (l layerList) Count() int { return len(l) }

func (l layerList) Get(i int) (binding.Layer, error) {
	if i < 0 || i >= len(l) {
		return nil, fmt.Errorf("%w: layer %d", ErrOutOfRange, i)
	}
	return l[i], nil
}
