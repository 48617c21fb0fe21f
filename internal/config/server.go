package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig controls the HTTP projection service.
type ServerConfig struct {
	HTTPAddr          string        `env:"ULPROJ_HTTP_ADDR"          envDefault:":8080"`
	ReadTimeout       time.Duration `env:"ULPROJ_READ_TIMEOUT"       envDefault:"15s"`
	WriteTimeout      time.Duration `env:"ULPROJ_WRITE_TIMEOUT"      envDefault:"60s"`
	DBPath            string        `env:"ULPROJ_DB_PATH"`
	RatesDir          string        `env:"ULPROJ_RATES_DIR"`
	CORSOrigins       []string      `env:"ULPROJ_CORS_ORIGINS"       envDefault:"*" envSeparator:","`
	ProjectionTimeout time.Duration `env:"ULPROJ_PROJECTION_TIMEOUT" envDefault:"30s"`
	Workers           int           `env:"ULPROJ_WORKERS"            envDefault:"4"`
}

// LoadServerConfig parses ServerConfig from the environment.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath != "" && cfg.RatesDir != "" {
		return ServerConfig{}, fmt.Errorf("ULPROJ_DB_PATH and ULPROJ_RATES_DIR are mutually exclusive")
	}
	if cfg.Workers <= 0 {
		return ServerConfig{}, fmt.Errorf("ULPROJ_WORKERS must be positive, got %d", cfg.Workers)
	}
	return cfg, nil
}
