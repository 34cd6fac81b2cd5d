package db

//
// db.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-spahost/internal/aerr"
)

//go:embed "migrations/*.sql"
var embedMigrations embed.FS

// Database wrap the sql connection pool shared by all requests.
type Database struct {
	db     *sqlx.DB
	driver string
}

func NewDatabaseI(_ do.Injector) (*Database, error) {
	return &Database{}, nil
}

func (d *Database) Connect(ctx context.Context, driver, connstr string) error {
	var err error

	if driver == "sqlite3" {
		connstr, err = prepareSqliteConnstr(connstr)
		if err != nil {
			return err
		}
	}

	logger := log.Ctx(ctx)
	logger.Info().Msgf("db: connecting to %q %q", driver, connstr)

	d.db, err = sqlx.Open(driver, connstr)
	if err != nil {
		return aerr.Wrapf(err, "open database failed").
			WithTag(aerr.InternalError).WithMeta("connstr", connstr)
	}

	d.driver = driver

	d.db.SetConnMaxIdleTime(30 * time.Second) //nolint:mnd
	d.db.SetConnMaxLifetime(60 * time.Second) //nolint:mnd
	d.db.SetMaxIdleConns(1)
	d.db.SetMaxOpenConns(10) //nolint:mnd

	if err := d.db.PingContext(ctx); err != nil {
		return aerr.Wrapf(err, "ping database failed").WithTag(aerr.InternalError)
	}

	return nil
}

// DB return the underlying pool for repositories.
func (d *Database) DB() *sqlx.DB {
	return d.db
}

func (d *Database) RegisterMetrics() {
	prometheus.DefaultRegisterer.MustRegister(collectors.NewDBStatsCollector(d.db.DB, "main"))
}

// Shutdown close database. Called by samber/do.
func (d *Database) Shutdown(ctx context.Context) error {
	if d.db == nil {
		return nil
	}

	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close db error: %w", err)
	}

	log.Ctx(ctx).Debug().Msg("db: closed")

	return nil
}

// HealthCheck is called by samber/do health checks (/health endpoint).
func (d *Database) HealthCheck() error {
	if d.db == nil {
		return errors.New("database not connected") //nolint:err113
	}

	if err := d.db.Ping(); err != nil {
		return fmt.Errorf("ping database failed: %w", err)
	}

	return nil
}

// Migrate bring the schema up to date; creates the users and sessions
// tables when missing. Only the sqlite3 driver is migrated here; for pgx
// the schema is managed externally.
func (d *Database) Migrate(ctx context.Context) error {
	if d.driver != "sqlite3" {
		log.Ctx(ctx).Info().Msgf("db: skipping migrations for driver %q", d.driver)

		return nil
	}

	logger := log.Ctx(ctx)

	migdir, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		panic(fmt.Errorf("prepare migration fs failed: %w", err))
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, d.db.DB, migdir)
	if err != nil {
		panic(fmt.Errorf("create goose provider failed: %w", err))
	}

	ver, err := provider.GetDBVersion(ctx)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err).WithMsg("failed to check current database version")
	}

	logger.Info().Msgf("db: current database version: %d", ver)

	for {
		res, err := provider.UpByOne(ctx)
		if res != nil {
			logger.Debug().Msgf("db: migration: %s", res)
		}

		if errors.Is(err, goose.ErrNoNextVersion) {
			break
		} else if err != nil {
			return aerr.ApplyFor(aerr.ErrDatabase, err).WithMsg("migrate database up failed")
		}
	}

	ver, err = provider.GetDBVersion(ctx)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err).WithMsg("failed to check current database version")
	}

	logger.Info().Msgf("db: migrated database version: %d", ver)

	if _, err := d.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err).WithMsg("execute optimize script failed")
	}

	return nil
}

//-------------------------------------------------------------

func prepareSqliteConnstr(connstr string) (string, error) {
	base, query, _ := strings.Cut(connstr, "?")

	params, err := url.ParseQuery(query)
	if err != nil {
		return "", aerr.Wrapf(err, "invalid connection string").WithMeta("connstr", connstr)
	}

	if !params.Has("_fk") {
		params.Set("_fk", "true")
	}

	if !params.Has("_journal_mode") {
		params.Set("_journal_mode", "wal")
	}

	return base + "?" + params.Encode(), nil
}
