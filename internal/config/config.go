// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"portfolio.db"`
	ContentPath  string `env:"CONTENT_PATH"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	// AdminSecret signs admin session tokens. A random one is generated at
	// startup when empty, which logs the admin out on every restart.
	AdminSecret string `env:"ADMIN_SECRET"`

	SubmitDelay      time.Duration `env:"SUBMIT_DELAY" envDefault:"2s"`
	FormResetAfter   time.Duration `env:"FORM_RESET_AFTER" envDefault:"3s"`
	PageTTL          time.Duration `env:"PAGE_TTL" envDefault:"30m"`
	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DefaultCredentials reports whether the admin login still uses the
// development defaults.
func (c Config) DefaultCredentials() bool {
	return c.AdminUsername == "admin" && c.AdminPassword == "admin123"
}
