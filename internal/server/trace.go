//go:build trace

package server

//
// trace.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"
	"runtime/pprof"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	xtrace "golang.org/x/net/trace"
)

func newTracingMiddleware(cfg *Configuration) func(http.Handler) http.Handler {
	_ = cfg

	xtrace.AuthRequest = authMgmtRequest

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			// trace only api requests
			if !strings.HasPrefix(request.URL.Path, apiPrefix) {
				next.ServeHTTP(writer, request)

				return
			}

			ctx := request.Context()
			reqid := "?"

			if id, ok := hlog.IDFromCtx(ctx); ok {
				reqid = id.String()
				pprof.SetGoroutineLabels(pprof.WithLabels(ctx, pprof.Labels("reqid", reqid)))
			}

			tr := xtrace.New("server", request.URL.Path+" req_id="+reqid)
			defer tr.Finish()

			ctx = xtrace.NewContext(ctx, tr)
			request = request.WithContext(ctx)

			next.ServeHTTP(writer, request)
		})
	}
}

func mountXTrace(group chi.Router) {
	group.Get("/debug/requests", xtrace.Traces)
	group.Get("/debug/events", xtrace.Events)
}
