// Package native is a pure-Go implementation of binding.Library built on
// orb. It registers three drivers: MEM for in-memory rasters and vectors,
// GeoJSON, and FlatGeobuf.
package native

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tingold/orb-gdal/binding"
)

// Common errors returned by this package.
var (
	ErrNotRecognized   = errors.New("native: not recognized as a supported file format")
	ErrUnsupportedMode = errors.New("native: unsupported access mode")
	ErrReadOnly        = errors.New("native: dataset opened read-only")
	ErrClosed          = errors.New("native: dataset is closed")
	ErrOutOfRange      = errors.New("native: index out of range")
	ErrEmptyLayer      = errors.New("native: layer has no features")
	ErrFieldExists     = errors.New("native: field already exists")
	ErrUnsupportedType = errors.New("native: unsupported field type")
	ErrNilGeometry     = errors.New("native: nil geometry")
	ErrNoIndex         = errors.New("native: file has no spatial index")
	ErrInvalidData     = errors.New("native: invalid data")
)

// UnknownDriverError is returned by Lookup for an unregistered name.
type UnknownDriverError struct {
	Name string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("native: no driver named %q", e.Name)
}

// CRS represents a coordinate reference system.
type CRS struct {
	Code        int    // EPSG code (e.g., 4326 for WGS84)
	Name        string // CRS name
	Description string // CRS description
	WKT         string // Well-Known Text representation
}

// WGS84 returns the standard WGS84 CRS (EPSG:4326).
func WGS84() *CRS {
	return &CRS{
		Code: 4326,
		Name: "WGS 84",
	}
}

// Config option keys the library understands.
const (
	ConfigDebug    = "CPL_DEBUG" // "ON" enables debug logging
	ConfigDataPath = "GDAL_DATA" // stored and reported, not used
)

// Library is the native library. It is safe for concurrent use; the
// datasets it hands out are not.
type Library struct {
	mu      sync.Mutex
	drivers *Registry
	config  map[string]string
	memory  map[string]*Dataset
	log     zerolog.Logger
	quiet   bool
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger used for driver activity.
func WithLogger(l zerolog.Logger) Option {
	return func(lib *Library) { lib.log = l }
}

// WithDriver registers an extra driver after the built-in ones.
func WithDriver(d binding.Driver) Option {
	return func(lib *Library) { lib.drivers.Register(d) }
}

// New returns a library with the MEM, GeoJSON and FlatGeobuf drivers
// registered in that order.
func New(opts ...Option) *Library {
	lib := &Library{
		drivers: &Registry{},
		config:  make(map[string]string),
		memory:  make(map[string]*Dataset),
		log:     zerolog.Nop(),
	}
	lib.drivers.Register(&memDriver{lib: lib})
	lib.drivers.Register(&geojsonDriver{lib: lib})
	lib.drivers.Register(&fgbDriver{lib: lib})

	for _, opt := range opts {
		opt(lib)
	}
	return lib
}

// Drivers implements binding.Library.
func (l *Library) Drivers() binding.DriverRegistry { return l.drivers }

// Registry returns the concrete registry.
func (l *Library) Registry() *Registry { return l.drivers }

// SetConfigOption implements binding.Library.
func (l *Library) SetConfigOption(key, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config[key] = value
}

// ConfigOption returns a configuration option, or "".
func (l *Library) ConfigOption(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.config[key]
}

// Quiet implements binding.Library. Warnings are no longer logged.
func (l *Library) Quiet() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quiet = true
}

// Open implements binding.Library: the first driver that recognizes
// filename opens it.
func (l *Library) Open(filename string, mode string) (binding.Dataset, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}

	for _, drv := range l.drivers.drivers {
		id, ok := drv.(identifier)
		if !ok || !id.Identify(filename) {
			continue
		}
		l.debug().Str("driver", drv.Name()).Str("filename", filename).Msg("identified")
		ds, err := drv.Open(filename, mode)
		if err != nil {
			l.warn().Err(err).Str("driver", drv.Name()).Str("filename", filename).Msg("open failed")
		}
		return ds, err
	}

	l.warn().Str("filename", filename).Msg("no driver recognized file")
	return nil, fmt.Errorf("%w: %s", ErrNotRecognized, filename)
}

func (l *Library) debug() *zerolog.Event {
	if !strings.EqualFold(l.ConfigOption(ConfigDebug), "ON") {
		return nil
	}
	return l.log.Debug()
}

func (l *Library) warn() *zerolog.Event {
	l.mu.Lock()
	quiet := l.quiet
	l.mu.Unlock()
	if quiet {
		return nil
	}
	return l.log.Warn()
}

// identifier is implemented by drivers that can recognize their files.
type identifier interface {
	Identify(filename string) bool
}

func checkMode(mode string) error {
	switch mode {
	case "r", "r+":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}
}

// Registry holds the registered drivers in registration order.
type Registry struct {
	drivers []binding.Driver
}

// Register appends d.
func (r *Registry) Register(d binding.Driver) {
	r.drivers = append(r.drivers, d)
}

// Count implements binding.Indexed.
func (r *Registry) Count() int { return len(r.drivers) }

// Get implements binding.Indexed. i is zero-based.
func (r *Registry) Get(i int) (binding.Driver, error) {
	if i < 0 || i >= len(r.drivers) {
		return nil, fmt.Errorf("%w: driver %d", ErrOutOfRange, i)
	}
	return r.drivers[i], nil
}

// Lookup implements binding.DriverRegistry. Names match case-insensitively.
func (r *Registry) Lookup(name string) (binding.Driver, error) {
	for _, d := range r.drivers {
		if strings.EqualFold(d.Name(), name) {
			return d, nil
		}
	}
	return nil, &UnknownDriverError{Name: name}
}
