package native

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tingold/orb-gdal/binding"
)

// memDriver keeps datasets in the library's memory store.
type memDriver struct {
	lib *Library
}

func (d *memDriver) Name() string { return string(binding.Memory) }

// Identify reports whether filename names a dataset in the memory store.
func (d *memDriver) Identify(filename string) bool {
	d.lib.mu.Lock()
	defer d.lib.mu.Unlock()
	_, ok := d.lib.memory[filename]
	return ok
}

// Open returns a new handle on a stored dataset. Handles share bands and
// layers with the dataset that was created.
func (d *memDriver) Open(filename string, mode string) (binding.Dataset, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	d.lib.mu.Lock()
	src, ok := d.lib.memory[filename]
	d.lib.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRecognized, filename)
	}

	ds := *src
	ds.mode = mode
	ds.closed = false
	ds.flush = nil
	return &ds, nil
}

// Create makes a dataset. args are (xSize, ySize, bandCount, DataType,
// []string options), all optional: without sizes the dataset is vector
// only. Options are KEY=VALUE pairs kept as metadata. An empty name is
// replaced by a generated one.
func (d *memDriver) Create(filename string, args ...any) (binding.Dataset, error) {
	if filename == "" {
		filename = "mem-" + uuid.NewString()
	}
	spec, err := parseRasterArgs(args)
	if err != nil {
		return nil, err
	}

	ds := newDataset(filename, d, ModeCreate)
	ds.xSize, ds.ySize = spec.x, spec.y
	ds.metadata = spec.options
	for i := 1; i <= spec.bands; i++ {
		ds.bands = append(ds.bands, newBand(i, spec.dataType, spec.x, spec.y))
	}

	d.lib.mu.Lock()
	d.lib.memory[filename] = ds
	d.lib.mu.Unlock()

	d.lib.debug().Str("name", filename).Int("bands", spec.bands).Msg("created memory dataset")
	return ds, nil
}

type rasterSpec struct {
	x, y, bands int
	dataType    binding.DataType
	options     map[string]string
}

func parseRasterArgs(args []any) (rasterSpec, error) {
	spec := rasterSpec{dataType: binding.Byte}
	ints := []*int{&spec.x, &spec.y, &spec.bands}
	for i, arg := range args {
		switch {
		case i < len(ints):
			n, err := toInt64(arg)
			if err != nil || n < 0 {
				return spec, fmt.Errorf("native: argument %d must be a non-negative integer, got %v", i, arg)
			}
			*ints[i] = int(n)
		case i == 3:
			dt, ok := arg.(binding.DataType)
			if !ok {
				return spec, fmt.Errorf("native: argument 3 must be a DataType, got %T", arg)
			}
			spec.dataType = dt
		case i == 4:
			opts, ok := arg.([]string)
			if !ok {
				return spec, fmt.Errorf("native: argument 4 must be []string, got %T", arg)
			}
			spec.options = parseOptions(opts)
		default:
			return spec, fmt.Errorf("native: too many creation arguments (%d)", len(args))
		}
	}
	if len(args) == 2 {
		spec.bands = 1
	}
	if spec.bands > 0 && (spec.x == 0 || spec.y == 0) {
		return spec, fmt.Errorf("native: raster size %dx%d is empty", spec.x, spec.y)
	}
	return spec, nil
}

func parseOptions(opts []string) map[string]string {
	m := make(map[string]string, len(opts))
	for _, opt := range opts {
		k, v, _ := strings.Cut(opt, "=")
		m[strings.ToUpper(k)] = v
	}
	return m
}

// ForgetMemory removes a dataset from the memory store. Open handles stay
// usable.
func (l *Library) ForgetMemory(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.memory[name]
	delete(l.memory, name)
	return ok
}
