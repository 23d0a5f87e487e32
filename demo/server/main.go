package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	gdal "github.com/tingold/orb-gdal"
	"github.com/tingold/orb-gdal/binding"
	"github.com/tingold/orb-gdal/native"
)

type City struct {
	Name       string
	Country    string
	Longitude  float64
	Latitude   float64
	Population int
	Capital    bool
}

var cities = []City{
	{"Tokyo", "Japan", 139.6917, 35.6895, 13960000, true},
	{"New York", "United States", -73.9857, 40.7484, 8336817, false},
	{"London", "United Kingdom", -0.1276, 51.5074, 8982000, true},
	{"Paris", "France", 2.3522, 48.8566, 2161000, true},
	{"Beijing", "China", 116.4074, 39.9042, 21540000, true},
	{"Moscow", "Russia", 37.6173, 55.7558, 12615000, true},
	{"São Paulo", "Brazil", -46.6333, -23.5505, 12300000, false},
	{"Mumbai", "India", 72.8777, 19.0760, 12400000, false},
	{"Los Angeles", "United States", -118.2437, 34.0522, 3971883, false},
	{"Shanghai", "China", 121.4737, 31.2304, 24870000, false},
	{"Istanbul", "Turkey", 28.9784, 41.0082, 15520000, false},
	{"Buenos Aires", "Argentina", -58.3816, -34.6037, 3075646, true},
	{"Cairo", "Egypt", 31.2357, 30.0444, 10230000, true},
	{"Sydney", "Australia", 151.2093, -33.8688, 5312000, false},
	{"Berlin", "Germany", 13.4050, 52.5200, 3669491, true},
}

func main() {
	cfg := LoadConfig()
	logger := newLogger(cfg, os.Stdout)

	lib := native.New(native.WithLogger(logger.With().Str("component", "native").Logger()))
	g := gdal.New(lib, &gdal.Options{
		Logger: logger.With().Str("component", "gdal").Logger(),
		Quiet:  cfg.LogLevel != "debug",
	})

	path := cfg.DataPath
	if path == "" {
		dir, err := os.MkdirTemp("", "orb-gdal-demo")
		if err != nil {
			logger.Fatal().Err(err).Msg("temp dir")
		}
		defer os.RemoveAll(dir)

		path = filepath.Join(dir, "world_cities.fgb")
		if err := writeCities(g, path); err != nil {
			logger.Fatal().Err(err).Msg("failed to create sample dataset")
		}
	}

	ds, err := g.OpenWith(path, "r", cfg.Drivers...)
	if err != nil {
		logger.Fatal().Err(err).Str("path", path).Strs("drivers", cfg.Drivers).Msg("open dataset")
	}
	defer ds.Close()
	logger.Info().Str("path", path).Str("driver", ds.Driver().Name()).Msg("serving dataset")

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	newHandler(g, ds, logger).routes(r)
	r.Handle("/*", http.FileServer(http.Dir(cfg.ClientDir)))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("client", cfg.ClientDir).Msg("http listen")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("signal received, shutting down")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("server stopped")
}

// writeCities creates the sample FlatGeobuf file. The schema is inferred
// from the first city's properties.
func writeCities(g *gdal.GDAL, path string) error {
	ds, err := g.Create(path, string(binding.FlatGeobuf))
	if err != nil {
		return err
	}
	nds := ds.Native().(*native.Dataset)
	if err := nds.SetCRS(native.WGS84()); err != nil {
		return err
	}
	nl, err := nds.CreateLayer("world_cities")
	if err != nil {
		return err
	}

	layer, err := ds.Layer("world_cities")
	if err != nil {
		return err
	}
	for i, city := range cities {
		props := geojson.Properties{
			"name":       city.Name,
			"country":    city.Country,
			"population": city.Population,
			"capital":    city.Capital,
		}
		if i == 0 {
			if err := layer.Fields().FromProperties(props); err != nil {
				return err
			}
		}
		pt := native.NewGeometry(orb.Point{city.Longitude, city.Latitude})
		if _, err := nl.CreateFeature(pt, props); err != nil {
			return err
		}
	}
	return ds.Close()
}

func newLogger(cfg Config, out io.Writer) zerolog.Logger {
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "orb-gdal-demo").Logger()
}
