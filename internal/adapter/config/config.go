package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Auth     *Auth
	Jobs     *Jobs
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Auth struct {
	TokenDuration string `env:"TOKEN_DURATION"`
}

type Jobs struct {
	// ReservationTTL bounds how long a journaled stock reservation may
	// stay unconsumed before the reconciliation job releases it.
	ReservationTTL   string `env:"RESERVATION_TTL"`
	ReconcileEvery   string `env:"RECONCILE_EVERY"`
	DisableReconcile bool   `env:"DISABLE_RECONCILE"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var auth Auth
	var jobs Jobs
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&auth.TokenDuration, "t", `24h`, "Access token lifetime")
	flag.StringVar(&jobs.ReservationTTL, "r", `15m`, "Stock reservation TTL")
	flag.StringVar(&jobs.ReconcileEvery, "i", `@every 5m`, "Reconcile job schedule")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&auth)
	if err != nil {
		return nil, fmt.Errorf("error parsing auth config: %w", err)
	}
	err = env.Parse(&jobs)
	if err != nil {
		return nil, fmt.Errorf("error parsing jobs config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}

	config := Config{
		Database: &db,
		HTTP:     &http,
		Auth:     &auth,
		Jobs:     &jobs,
		App:      &app,
	}

	return &config, nil
}
