package config

//
// config.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"strconv"

	"github.com/caarlos0/env/v11"
	"gitlab.com/kabes/go-spahost/internal/aerr"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultSessionSecret is the development-only secret; starting a
// production server with it is a configuration error.
const DefaultSessionSecret = "spahost-dev-secret"

// AppConfig is the application configuration, read once from the
// environment at startup and never mutated afterwards. CLI flags may
// override single fields before Validate is called.
type AppConfig struct {
	Env            string `env:"APP_ENV"         envDefault:"development"`
	Port           int    `env:"PORT"            envDefault:"5000"`
	SessionSecret  string `env:"SESSION_SECRET"  envDefault:"spahost-dev-secret"`
	Database       string `env:"DATABASE"        envDefault:"spahost.sqlite"`
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite3"`
	StaticDir      string `env:"STATIC_DIR"      envDefault:"dist/public"`
	DevServerURL   string `env:"DEV_SERVER_URL"  envDefault:"http://127.0.0.1:5173"`

	EnableMetrics bool
	DebugFlags    DebugFlags
}

// FromEnv read configuration from environment variables.
func FromEnv() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, aerr.Wrapf(err, "parse environment failed").WithTag(aerr.ConfigurationError)
	}

	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
		// ok
	default:
		return aerr.ErrInvalidConf.Clone().
			WithUserMsg("APP_ENV must be development or production").
			WithMeta("env", c.Env)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return aerr.ErrInvalidConf.Clone().
			WithUserMsg("invalid port").
			WithMeta("port", c.Port)
	}

	if c.Database == "" {
		return aerr.ErrInvalidConf.Clone().WithUserMsg("database can't be empty")
	}

	switch c.DatabaseDriver {
	case "sqlite3", "pgx":
		// ok
	default:
		return aerr.ErrInvalidConf.Clone().
			WithUserMsg("unsupported database driver").
			WithMeta("driver", c.DatabaseDriver)
	}

	if c.Production() && c.SessionSecret == DefaultSessionSecret {
		return aerr.ErrInvalidConf.Clone().
			WithUserMsg("SESSION_SECRET must be set in production")
	}

	return nil
}

func (c *AppConfig) Production() bool {
	return c.Env == EnvProduction
}

// Listen return the bind address; all interfaces, single port for both
// API and client assets.
func (c *AppConfig) Listen() string {
	return "0.0.0.0:" + strconv.Itoa(c.Port)
}

// UseSecureCookie: the session cookie carries the Secure flag only in
// production mode.
func (c *AppConfig) UseSecureCookie() bool {
	return c.Production()
}
