package server

//
// mgmt.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/xid"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	dochi "github.com/samber/do/http/chi/v2"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-spahost/internal/common"
	"gitlab.com/kabes/go-spahost/internal/config"
)

// createMgmtRouters mount health, metrics and - according to debug flags -
// debug endpoints on the main router.
func createMgmtRouters(injector do.Injector, router *chi.Mux, cfg *Configuration) {
	router.Get("/health", newHealthChecker(injector))

	router.Group(func(group chi.Router) {
		group.Use(hlog.RequestIDHandler(common.LogKeyReqID, "Request-Id"))
		group.Use(newVerySimpleLogMiddleware("MgmtServer"))
		group.Use(newRecoverMiddleware)
		group.Use(middleware.CleanPath)
		group.Use(newAuthMgmtMiddleware())

		if cfg.DebugFlags.HasFlag(config.DebugDo) {
			dochi.Use(router, "/debug/do", injector)
		}

		if cfg.DebugFlags.HasFlag(config.DebugGo) {
			group.Mount("/debug", middleware.Profiler())
		}

		if cfg.DebugFlags.HasFlag(config.DebugTrace) {
			mountXTrace(group)
		}
	})

	if cfg.EnableMetrics {
		router.Method("GET", "/metrics", newMetricsHandler())
	}
}

//-------------------------------------------------------------

// newHealthChecker create new handler for /health endpoint. Accept only
// connections from localhost or private networks.
func newHealthChecker(injector do.Injector) http.HandlerFunc {
	rootscope := injector.RootScope()

	return func(w http.ResponseWriter, r *http.Request) {
		log.Logger.Debug().Msgf("remote %v", r.RemoteAddr)

		if access, _ := authMgmtRequest(r); !access {
			w.WriteHeader(http.StatusForbidden)

			return
		}

		response := "ok"

		for service, err := range rootscope.HealthCheckWithContext(r.Context()) {
			if err != nil {
				log.Logger.Error().Err(err).Str("service", service).
					Msgf("HealthChecker: service=%q failed on healthcheck: %s", service, err)

				response = "error"
			}
		}

		render.PlainText(w, r, response)
	}
}

//-------------------------------------------------------------

// authMgmtRequest check request remote address is it allowed to access
// to debug data and sensitive information.
// Return:
//   - bool - is access allowed
//   - bool - is access to sensitive data allowed.
func authMgmtRequest(req *http.Request) (bool, bool) {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}

	if host == "localhost" {
		return true, true
	}

	ip := net.ParseIP(host)

	switch {
	case ip == nil:
		return false, false
	case ip.IsLoopback():
		// always allow loopback
		return true, true
	default:
		return ip.IsPrivate(), false
	}
}

func newAuthMgmtMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, sensitive := authMgmtRequest(r); !sensitive {
				w.WriteHeader(http.StatusForbidden)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// newVerySimpleLogMiddleware log only request uri and status; for requests
// without id generate own one.
func newVerySimpleLogMiddleware(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			requestID, ok := hlog.IDFromCtx(ctx)
			if !ok {
				requestID = xid.New()
			}

			llog := log.With().Str(common.LogKeyReqID, requestID.String()).Logger()
			request = request.WithContext(llog.WithContext(ctx))

			lrw := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)

			defer func() {
				llog.Debug().
					Str("uri", request.RequestURI).
					Int("status", lrw.Status()).
					Msgf("%s: request finished", name)
			}()

			next.ServeHTTP(lrw, request)
		})
	}
}
