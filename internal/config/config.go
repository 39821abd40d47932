package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/redpen.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../admin/dist"`

	// Initial admin account, created on first start if no admin exists.
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@redpen.kr"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:""`

	// SeedDemo loads the bundled demo stages into an empty catalog.
	SeedDemo bool `env:"SEED_DEMO" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
