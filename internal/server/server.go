package server

//
// server.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-spahost/internal/aerr"
	spaapi "gitlab.com/kabes/go-spahost/internal/api"
	"gitlab.com/kabes/go-spahost/internal/assets"
	"gitlab.com/kabes/go-spahost/internal/common"
	"gitlab.com/kabes/go-spahost/internal/config"
)

const (
	defaultReadTimeout    = 60 * time.Second
	defaultWriteTimeout   = 60 * time.Second
	defaultMaxHeaderBytes = 1 << 20
)

type Server struct {
	router chi.Router

	cfg *Configuration
	s   *http.Server
}

func New(injector do.Injector) (*Server, error) {
	cfg := do.MustInvoke[*Configuration](injector)
	authMW := do.MustInvoke[authenticator](injector)
	api := do.MustInvoke[spaapi.API](injector)
	assetsrv := do.MustInvoke[assets.AssetServer](injector)
	sessionMW := do.MustInvoke[sessionMiddleware](injector)

	// routes
	router := chi.NewRouter()
	router.Use(middleware.Heartbeat("/ping"))
	router.Use(middleware.RealIP)

	router.Group(func(group chi.Router) {
		group.Use(hlog.RequestIDHandler(common.LogKeyReqID, "Request-Id"))

		if cfg.DebugFlags.HasFlag(config.DebugTrace) {
			group.Use(newTracingMiddleware(cfg))
		}

		group.Use(newHeadersMiddleware)
		group.Use(newLogMiddleware(cfg.DebugFlags.HasFlag(config.DebugMsgBody)))
		group.Use(newRecoverMiddleware)
		group.Use(middleware.CleanPath)
		group.Use(sessionMW)
		group.Use(authMW.handle)

		group.
			With(newPromMiddleware("api", nil)).
			Mount(apiPrefix, api.Routes())

		// assets go in after the api routes; the catch-all must never
		// shadow an api path.
		assetsrv.Register(group.With(newPromMiddleware("assets", nil)))
	})

	createMgmtRouters(injector, router, cfg)

	return &Server{
		router: router,
		cfg:    cfg,
		s: &http.Server{
			Addr:           cfg.Listen,
			Handler:        router,
			ReadTimeout:    defaultReadTimeout,
			WriteTimeout:   defaultWriteTimeout,
			MaxHeaderBytes: defaultMaxHeaderBytes,
		},
	}, nil
}

func (s *Server) Start(ctx context.Context) error {
	logger := log.Logger

	if s.cfg.DebugFlags.HasFlag(config.DebugRouter) {
		logRoutes(ctx, "Server", s.router)
	}

	listener, err := newListener(ctx, s.cfg.Listen)
	if err != nil {
		return aerr.Wrapf(err, "start listen error")
	}

	logger.Log().Msgf("Server: listen on address=%s", s.cfg.Listen)

	go func() {
		if err := s.s.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log().Err(err).Msgf("Server: serve error: %s", err)
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger := log.Ctx(ctx)
	logger.Debug().Msg("Server: stopping...")

	if err := s.s.Shutdown(ctx); err != nil {
		return aerr.Wrapf(err, "shutdown server failed")
	}

	logger.Debug().Msg("Server: stopped")

	return nil
}

//-------------------------------------------------------------

func logRoutes(ctx context.Context, name string, r chi.Routes) {
	logger := log.Ctx(ctx)

	walkFunc := func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		_ = handler
		_ = middlewares
		route = strings.ReplaceAll(route, "/*/", "/")
		logger.Debug().Msgf("%s: ROUTE: %s %s", name, method, route)

		return nil
	}

	if err := chi.Walk(r, walkFunc); err != nil {
		logger.Error().Err(err).Msgf("Server: routers walk error: %s", err)
	}
}

func newListener(ctx context.Context, address string) (net.Listener, error) {
	lc := net.ListenConfig{}

	l, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, aerr.Wrapf(err, "listen failed").WithMeta("address", address)
	}

	return l, nil
}
