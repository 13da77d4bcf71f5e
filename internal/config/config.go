package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath           string        `env:"DB_PATH" envDefault:":memory:"`
	LogLevel         slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir           string        `env:"SPA_DIR" envDefault:"../web/dist"`
	CatalogPath      string        `env:"CATALOG_PATH"`
	SimulatedLatency time.Duration `env:"SIMULATED_LATENCY" envDefault:"800ms"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.RequestTimeout <= cfg.SimulatedLatency {
		return nil, fmt.Errorf("REQUEST_TIMEOUT (%s) must exceed SIMULATED_LATENCY (%s)", cfg.RequestTimeout, cfg.SimulatedLatency)
	}
	return &cfg, nil
}
