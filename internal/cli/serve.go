package cli

//
// serve.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Merovius/systemd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-spahost/internal/aerr"
	spaapi "gitlab.com/kabes/go-spahost/internal/api"
	"gitlab.com/kabes/go-spahost/internal/assets"
	"gitlab.com/kabes/go-spahost/internal/config"
	"gitlab.com/kabes/go-spahost/internal/db"
	"gitlab.com/kabes/go-spahost/internal/server"
)

func newStartServerCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "enable-metrics",
				Usage:   "enable prometheus metrics (/metrics endpoint)",
				Sources: cli.EnvVars("ENABLE_METRICS"),
			},
			&cli.BoolFlag{
				Name:    "auto-migrate",
				Usage:   "apply database migrations on start",
				Sources: cli.EnvVars("AUTO_MIGRATE"),
				Value:   true,
			},
		},
		Action: wrap(startServerCmd),
	}
}

func startServerCmd(ctx context.Context, clicmd *cli.Command, rootInjector do.Injector) error {
	injector := rootInjector.Scope("server",
		spaapi.Package,
		assets.Package,
		server.Package,
	)

	cfg := do.MustInvoke[*config.AppConfig](injector)
	cfg.EnableMetrics = clicmd.Bool("enable-metrics")

	serverConf := server.Configuration{
		Listen:        cfg.Listen(),
		DebugFlags:    cfg.DebugFlags,
		EnableMetrics: cfg.EnableMetrics,
		CookieSecure:  cfg.UseSecureCookie(),
	}

	if err := serverConf.Validate(); err != nil {
		return aerr.Wrapf(err, "server config validation failed")
	}

	do.ProvideValue(injector, &serverConf)
	do.ProvideValue(injector, &assets.Configuration{
		Production:   cfg.Production(),
		StaticDir:    cfg.StaticDir,
		DevServerURL: cfg.DevServerURL,
	})

	s := Server{}

	return s.start(ctx, injector, cfg, clicmd)
}

type Server struct{}

func (s *Server) start(ctx context.Context, injector do.Injector, cfg *config.AppConfig,
	clicmd *cli.Command,
) error {
	logger := log.Ctx(ctx)
	logger.Log().Msgf("Starting go-spahost (%s)...", config.VersionString)
	logger.Log().Msgf("Server: environment=%s", cfg.Env)
	logger.Debug().Msgf("Server: debug_flags=%q", cfg.DebugFlags)

	s.startSystemdWatchdog(logger)

	if clicmd.Bool("auto-migrate") {
		database := do.MustInvoke[*db.Database](injector)
		if err := database.Migrate(ctx); err != nil {
			return aerr.Wrapf(err, "database migration failed")
		}
	}

	if cfg.EnableMetrics {
		do.MustInvoke[*db.Database](injector).RegisterMetrics()
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	srv := do.MustInvoke[*server.Server](injector)
	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Msgf("start server failed error=%q", err)

		return aerr.Wrapf(err, "failed start server")
	}

	systemd.NotifyReady()           //nolint:errcheck
	systemd.NotifyStatus("running") //nolint:errcheck

	<-ctx.Done()

	systemd.NotifyStatus("stopped") //nolint:errcheck

	shutdownCtx := context.WithoutCancel(ctx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msgf("server shutdown error=%q", err)
	}

	return nil
}

func (*Server) startSystemdWatchdog(logger *zerolog.Logger) {
	if ok, dur, err := systemd.AutoWatchdog(); ok {
		logger.Info().Msgf("Systemd: autowatchdog started; duration=%s", dur)
	} else if err != nil {
		logger.Warn().Err(err).Msgf("Systemd: autowatchdog start error=%q", err)
	}
}
