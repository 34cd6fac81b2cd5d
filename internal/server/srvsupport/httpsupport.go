package srvsupport

//
// httpsupport.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/kabes/go-spahost/internal/aerr"
)

// SessionUserID return the serialized principal id from the session or 0.
func SessionUserID(store session.Store, key string) int64 {
	if userid, ok := store.Get(key).(int64); ok {
		return userid
	}

	return 0
}

// Wrap add context and logger to handler.
func Wrap(handler func(ctx context.Context, w http.ResponseWriter, r *http.Request,
	logger *zerolog.Logger),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := hlog.FromRequest(r)
		handler(ctx, w, r, logger)
	}
}

// WrapNamed add context and logger to handler. `name` is put as `handler` in logger context.
func WrapNamed(
	handler func(ctx context.Context, w http.ResponseWriter, r *http.Request, logger *zerolog.Logger),
	name string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r).
			With().Str("handler", name).
			Logger()

		ctx := logger.WithContext(r.Context())
		r = r.WithContext(ctx)

		handler(ctx, w, r, &logger)
	}
}

// WriteError send one JSON error response `{"message": ...}`. This is the
// only terminal action taken for an error; it is never re-raised.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if msg == "" {
		msg = http.StatusText(code)
	}

	res := struct {
		Message string `json:"message"`
	}{msg}

	render.Status(r, code)
	RenderJSON(w, r, &res)
}

// CheckAndWriteError map err to a status code and respond; detail-free 500
// for anything unclassified.
func CheckAndWriteError(w http.ResponseWriter, r *http.Request, err error) {
	msg := aerr.GetUserMessage(err)

	switch {
	case aerr.HasTag(err, aerr.AuthError):
		WriteError(w, r, http.StatusUnauthorized, msg)

	case aerr.HasTag(err, aerr.ValidationError):
		WriteError(w, r, http.StatusBadRequest, msg)

	case aerr.HasTag(err, aerr.InternalError):
		// write message if is defined in error
		WriteError(w, r, http.StatusInternalServerError, msg)

	default:
		// unknown error; never show details
		WriteError(w, r, http.StatusInternalServerError, "")
	}
}
