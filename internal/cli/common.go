package cli

//
// common.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-spahost/internal/aerr"
	"gitlab.com/kabes/go-spahost/internal/config"
	"gitlab.com/kabes/go-spahost/internal/db"
	"gitlab.com/kabes/go-spahost/internal/repository"
	"gitlab.com/kabes/go-spahost/internal/service"
)

// wrap prepare logger, configuration and a connected database before the
// actual command function runs; services are shut down afterwards.
func wrap(
	cmdfunc func(ctx context.Context, clicmd *cli.Command, i do.Injector) error,
) func(ctx context.Context, clicmd *cli.Command) error {
	return func(ctx context.Context, clicmd *cli.Command) error {
		if err := initializeLogger(clicmd.String("log.level"), clicmd.String("log.format")); err != nil {
			return err
		}

		ctx = log.Logger.WithContext(ctx)

		cfg, err := loadConfig(clicmd)
		if err != nil {
			return err
		}

		injector := createInjector(ctx)
		do.ProvideValue(injector, cfg)

		database := do.MustInvoke[*db.Database](injector)
		if err := database.Connect(ctx, cfg.DatabaseDriver, cfg.Database); err != nil {
			return aerr.Wrapf(err, "connect to database failed")
		}

		defer shutdownInjector(ctx, injector)

		return cmdfunc(ctx, clicmd, injector)
	}
}

// loadConfig read environment configuration and apply cli overrides.
func loadConfig(clicmd *cli.Command) (*config.AppConfig, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	if d := clicmd.String("database"); d != "" {
		cfg.Database = d
	}

	cfg.DebugFlags = config.NewDebugFlags(clicmd.String("debug"))

	if err := cfg.Validate(); err != nil {
		return nil, aerr.Wrapf(err, "invalid configuration")
	}

	return cfg, nil
}

func createInjector(ctx context.Context) do.Injector {
	injector := do.New(
		db.Package,
		repository.Package,
		service.Package,
	)

	logger := log.Ctx(ctx)
	logger.Debug().Msgf("Available services: %v", injector.ListProvidedServices())

	return injector
}

func shutdownInjector(ctx context.Context, injector do.Injector) {
	logger := log.Ctx(ctx)
	logger.Debug().Msg("shutting down services...")

	if report := injector.ShutdownWithContext(ctx); report != nil && !report.Succeed {
		logger.Warn().Msgf("services shutdown error: %s", report.Error())
	}
}
