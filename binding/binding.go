// Package binding defines the contract a native geospatial library has to
// satisfy to sit behind the gdal façade: a driver registry, drivers that
// open and create datasets, and the datasets, layers, features and
// geometries they hand out.
//
// Nothing in this package does any work. The native package provides a
// pure-Go implementation; a cgo GDAL wrapper can satisfy the same
// interfaces.
package binding

// DriverName identifies a registered driver.
type DriverName string

// Well known driver names.
const (
	Memory     DriverName = "MEM"
	GeoJSON    DriverName = "GeoJSON"
	FlatGeobuf DriverName = "FlatGeobuf"
	GTiff      DriverName = "GTiff"
	HFA        DriverName = "HFA"
)

// Library is the native library handle the façade is assembled from.
type Library interface {
	// Open opens filename with the library's own driver detection.
	Open(filename string, mode string) (Dataset, error)

	// Drivers returns the driver registry.
	Drivers() DriverRegistry

	// SetConfigOption sets a library wide configuration option.
	SetConfigOption(key, value string)

	// Quiet silences the library's own error reporting.
	Quiet()
}

// DriverRegistry lists the registered drivers. Get is zero-based.
type DriverRegistry interface {
	Indexed[Driver]

	// Lookup returns the driver registered under name, or an error if
	// there is none.
	Lookup(name string) (Driver, error)
}

// Driver opens and creates datasets of one format.
type Driver interface {
	Name() string

	// Open fails on any open error, including an unsupported mode.
	Open(filename string, mode string) (Dataset, error)

	// Create creates a new dataset. The meaning of args is driver specific;
	// raster drivers take (xSize, ySize, bandCount, DataType, []string).
	Create(filename string, args ...any) (Dataset, error)
}

// Dataset is an open raster or vector source.
type Dataset interface {
	Description() string
	Driver() Driver

	// Bands is one-based: valid indices are 1..Count().
	Bands() Indexed[Band]

	// Layers is zero-based.
	Layers() Indexed[Layer]

	Close() error
}
