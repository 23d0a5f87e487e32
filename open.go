package gdal

import (
	"github.com/tingold/orb-gdal/binding"
)

// ModeCreate is the Open mode that creates a dataset.
const ModeCreate = "w"

// Request is the resolved meaning of one Open call. It is one of
// DirectOpen, CreateRequest or FallbackOpen.
type Request interface {
	request()
}

// DirectOpen delegates to the native library's own open.
type DirectOpen struct {
	Filename string
	Mode     string
}

// CreateRequest creates a dataset with a single driver.
type CreateRequest struct {
	Filename string
	Driver   string
	Args     []any // size, band count, pixel type, options; in call order
}

// FallbackOpen tries each driver in order until one opens the file.
type FallbackOpen struct {
	Filename string
	Mode     string
	Drivers  []string
}

func (DirectOpen) request()    {}
func (CreateRequest) request() {}
func (FallbackOpen) request()  {}

// ParseOpenArgs resolves the arguments of Open into a Request:
//
//	Open(filename)                               -> DirectOpen{mode "r"}
//	Open(filename, mode)                         -> DirectOpen
//	Open(filename, "w", driver, creationArgs...) -> CreateRequest
//	Open(filename, mode, drivers)                -> FallbackOpen
//
// drivers is a string, a binding.DriverName or a slice of either. A create
// request must name exactly one driver.
func ParseOpenArgs(filename string, args ...any) (Request, error) {
	if len(args) == 0 {
		return DirectOpen{Filename: filename, Mode: "r"}, nil
	}

	mode, ok := args[0].(string)
	if !ok {
		return nil, invalidArg("mode must be a string, got %T", args[0])
	}

	var drivers []string
	if len(args) > 1 {
		var err error
		if drivers, err = driverList(args[1]); err != nil {
			return nil, err
		}
	}

	if mode == ModeCreate {
		if len(drivers) != 1 {
			return nil, &ValidationError{Err: ErrOneDriverOnly}
		}
		var creation []any
		if len(args) > 2 {
			creation = append(creation, args[2:]...)
		}
		return CreateRequest{Filename: filename, Driver: drivers[0], Args: creation}, nil
	}

	if len(args) == 1 {
		return DirectOpen{Filename: filename, Mode: mode}, nil
	}
	return FallbackOpen{Filename: filename, Mode: mode, Drivers: drivers}, nil
}

// driverList normalizes a driver argument; a single name becomes a one
// element list.
func driverList(v any) ([]string, error) {
	switch d := v.(type) {
	case string:
		return []string{d}, nil
	case binding.DriverName:
		return []string{string(d)}, nil
	case []string:
		return append([]string(nil), d...), nil
	case []binding.DriverName:
		names := make([]string, len(d))
		for i, name := range d {
			names[i] = string(name)
		}
		return names, nil
	case []any:
		names := make([]string, len(d))
		for i, item := range d {
			switch name := item.(type) {
			case string:
				names[i] = name
			case binding.DriverName:
				names[i] = string(name)
			default:
				return nil, invalidArg("driver name must be a string, got %T", item)
			}
		}
		return names, nil
	default:
		return nil, invalidArg("drivers must be a string or a list of strings, got %T", v)
	}
}

// Open opens or creates a dataset. See ParseOpenArgs for the accepted
// argument shapes.
func (g *GDAL) Open(filename string, args ...any) (*Dataset, error) {
	req, err := ParseOpenArgs(filename, args...)
	if err != nil {
		return nil, err
	}
	return g.Dispatch(req)
}

// Create creates filename with the named driver.
func (g *GDAL) Create(filename, driver string, args ...any) (*Dataset, error) {
	return g.Dispatch(CreateRequest{Filename: filename, Driver: driver, Args: args})
}

// OpenWith opens filename with the first of drivers that succeeds.
func (g *GDAL) OpenWith(filename, mode string, drivers ...string) (*Dataset, error) {
	return g.Dispatch(FallbackOpen{Filename: filename, Mode: mode, Drivers: drivers})
}

// Dispatch executes a resolved request.
func (g *GDAL) Dispatch(req Request) (*Dataset, error) {
	switch r := req.(type) {
	case DirectOpen:
		return g.openDirect(r)
	case CreateRequest:
		return g.create(r)
	case FallbackOpen:
		return g.openFallback(r)
	default:
		return nil, invalidArg("unknown request %T", req)
	}
}

func (g *GDAL) openDirect(r DirectOpen) (*Dataset, error) {
	ds, err := g.lib.Open(r.Filename, r.Mode)
	if err != nil {
		return nil, err
	}
	return wrapDataset(ds), nil
}

func (g *GDAL) create(r CreateRequest) (*Dataset, error) {
	drv, err := g.lib.Drivers().Lookup(r.Driver)
	if err != nil {
		return nil, err
	}

	ds, err := drv.Create(r.Filename, r.Args...)
	if err != nil {
		return nil, err
	}
	g.log.Debug().Str("driver", r.Driver).Str("filename", r.Filename).Int("args", len(r.Args)).Msg("created dataset")
	return wrapDataset(ds), nil
}

// openFallback tries the drivers one at a time and stops at the first
// success. Failed attempts are discarded.
func (g *GDAL) openFallback(r FallbackOpen) (*Dataset, error) {
	for _, name := range r.Drivers {
		drv, err := g.lib.Drivers().Lookup(name)
		if err != nil {
			return nil, err
		}

		ds, err := drv.Open(r.Filename, r.Mode)
		if err != nil {
			g.log.Debug().Err(err).Str("driver", name).Str("filename", r.Filename).Msg("open attempt failed")
			continue
		}
		g.log.Debug().Str("driver", name).Str("filename", r.Filename).Msg("opened dataset")
		return wrapDataset(ds), nil
	}

	return nil, &OpenFailureError{Filename: r.Filename, Drivers: r.Drivers}
}
