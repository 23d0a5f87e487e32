package gdal

import (
	"github.com/rs/zerolog"

	"github.com/tingold/orb-gdal/binding"
)

// GDAL is the façade over one native library. It is assembled once by New
// and not modified afterwards; it holds no per-call state.
type GDAL struct {
	lib binding.Library
	log zerolog.Logger
}

// New assembles the façade over lib. A nil opts uses DefaultOptions.
// Quiet and ConfigOptions are applied to lib here and only here.
func New(lib binding.Library, opts *Options) *GDAL {
	if opts == nil {
		opts = DefaultOptions()
	}

	if opts.Quiet {
		lib.Quiet()
	}
	for key, value := range opts.ConfigOptions {
		lib.SetConfigOption(key, value)
	}

	return &GDAL{lib: lib, log: opts.Logger}
}

// Library returns the native library.
func (g *GDAL) Library() binding.Library { return g.lib }

// Drivers enumerates the registered drivers.
func (g *GDAL) Drivers() *Collection[binding.Driver] {
	return newIndexed[binding.Driver](KindDrivers, g.lib.Drivers())
}

// Driver looks up a driver by name.
func (g *GDAL) Driver(name string) (binding.Driver, error) {
	return g.lib.Drivers().Lookup(name)
}
