package main

import (
	"flag"
	"os"
	"strings"
)

type Config struct {
	Addr      string
	LogLevel  string
	Console   bool
	DataPath  string
	Drivers   []string
	ClientDir string
}

// LoadConfig reads the environment, then lets flags override it.
func LoadConfig() Config {
	var cfg Config
	cfg.Addr = getEnv("DEMO_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.Console = strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true"
	cfg.DataPath = getEnv("DATA_PATH", "")
	cfg.ClientDir = getEnv("CLIENT_DIR", "../client")
	drivers := getEnv("DATA_DRIVERS", "FlatGeobuf,GeoJSON")

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	flag.BoolVar(&cfg.Console, "console", cfg.Console, "human readable log output")
	flag.StringVar(&cfg.DataPath, "data", cfg.DataPath, "dataset to serve; empty builds the sample cities file")
	flag.StringVar(&drivers, "drivers", drivers, "comma separated drivers tried in order")
	flag.StringVar(&cfg.ClientDir, "client", cfg.ClientDir, "directory of static client files")
	flag.Parse()

	for _, d := range strings.Split(drivers, ",") {
		if d = strings.TrimSpace(d); d != "" {
			cfg.Drivers = append(cfg.Drivers, d)
		}
	}
	return cfg
}

func getEnv(k, def string) string {
	value := os.Getenv(k)
	if value != "" {
		return value
	}
	return def
}
