package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	gdal "github.com/tingold/orb-gdal"
	"github.com/tingold/orb-gdal/binding"
	"github.com/tingold/orb-gdal/native"
)

type handler struct {
	g   *gdal.GDAL
	ds  *gdal.Dataset
	log zerolog.Logger

	// native cursors and spatial filters are shared per layer
	mu sync.Mutex
}

func newHandler(g *gdal.GDAL, ds *gdal.Dataset, log zerolog.Logger) *handler {
	return &handler{g: g, ds: ds, log: log}
}

func (h *handler) routes(r chi.Router) {
	r.Get("/drivers", h.drivers)
	r.Get("/layers", h.layers)
	r.Get("/layers/{name}/schema", h.schema)
	r.Get("/layers/{name}/features", h.features)
}

type layerInfo struct {
	Name   string     `json:"name"`
	Fields []string   `json:"fields"`
	BBox   [4]float64 `json:"bbox"`
}

func (h *handler) drivers(w http.ResponseWriter, _ *http.Request) {
	var names []string
	err := h.g.Drivers().ForEach(func(d binding.Driver) error {
		names = append(names, d.Name())
		return nil
	})
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, names)
}

func (h *handler) layers(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var infos []layerInfo
	err := h.ds.Layers().ForEach(func(l *gdal.Layer) error {
		fields, err := l.Fields().Names()
		if err != nil {
			return err
		}
		info := layerInfo{Name: l.Name(), Fields: fields}
		if env, err := l.Extent(true); err == nil {
			info.BBox = [4]float64{env.MinX, env.MinY, env.MaxX, env.MaxY}
		}
		infos = append(infos, info)
		return nil
	})
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, infos)
}

func (h *handler) schema(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.layer(w, r)
	if !ok {
		return
	}
	schema := make(map[string]string)
	err := l.Fields().ForEach(func(def gdal.FieldDefn) error {
		schema[def.Name] = def.Type.String()
		return nil
	})
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, schema)
}

// features streams a layer as a FeatureCollection. bbox=minx,miny,maxx,maxy
// restricts it with the layer's spatial filter; limit caps the count.
func (h *handler) features(w http.ResponseWriter, r *http.Request) {
	var filter *gdal.Envelope
	if raw := strings.TrimSpace(r.URL.Query().Get("bbox")); raw != "" {
		env, err := parseBBox(raw)
		if err != nil {
			http.Error(w, "invalid bbox: "+err.Error(), http.StatusBadRequest)
			return
		}
		filter = &env
	}
	limit := -1
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.layer(w, r)
	if !ok {
		return
	}
	if filter != nil && !l.SetSpatialFilter(filter) {
		http.Error(w, "layer does not support spatial filters", http.StatusNotImplemented)
		return
	}
	defer l.SetSpatialFilter(nil)

	fc := geojson.NewFeatureCollection()
	err := l.Features().ForEach(func(f *gdal.Feature) error {
		if limit >= 0 && len(fc.Features) >= limit {
			return gdal.Stop
		}
		feature, err := toGeoJSON(f)
		if err != nil {
			return err
		}
		fc.Append(feature)
		return nil
	})
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return
	}

	h.log.Debug().Str("layer", l.Name()).Int("features", len(fc.Features)).Bool("filtered", filter != nil).Msg("features served")
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	data, err := fc.MarshalJSON()
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(data)
}

func (h *handler) layer(w http.ResponseWriter, r *http.Request) (*gdal.Layer, bool) {
	name := chi.URLParam(r, "name")
	l, err := h.ds.Layer(name)
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return nil, false
	}
	if l == nil {
		http.Error(w, fmt.Sprintf("no layer named %q", name), http.StatusNotFound)
		return nil, false
	}
	return l, true
}

func (h *handler) fail(w http.ResponseWriter, err error, status int) {
	h.log.Error().Err(err).Int("status", status).Msg("request failed")
	http.Error(w, err.Error(), status)
}

// toGeoJSON converts a feature. Only native features carry an orb
// geometry; others are served without one.
func toGeoJSON(f *gdal.Feature) (*geojson.Feature, error) {
	var geom orb.Geometry
	if nf, ok := f.Native().(*native.Feature); ok && nf.NativeGeometry() != nil {
		geom = nf.NativeGeometry().Orb()
	}
	props, err := f.Properties()
	if err != nil {
		return nil, err
	}

	feature := geojson.NewFeature(geom)
	feature.ID = f.FID()
	feature.Properties = props
	return feature, nil
}

func parseBBox(raw string) (gdal.Envelope, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return gdal.Envelope{}, errors.New("expected minx,miny,maxx,maxy")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return gdal.Envelope{}, err
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return gdal.Envelope{}, errors.New("min greater than max")
	}
	return gdal.Envelope{MinX: v[0], MinY: v[1], MaxX: v[2], MaxY: v[3]}, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
