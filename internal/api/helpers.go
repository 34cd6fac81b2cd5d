// helpers.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"gitlab.com/kabes/go-spahost/internal/aerr"
	"gitlab.com/kabes/go-spahost/internal/server/srvsupport"
)

const maxBodySize = 50 << 20 // 50MB

// maxBodyMiddleware cap request body size before any decoding happens.
func maxBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		}

		next.ServeHTTP(w, r)
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return aerr.Wrapf(err, "decode request body error").
			WithTag(aerr.ValidationError).
			WithUserMsg("Invalid request body")
	}

	return nil
}

// writeDecodeError answer a failed body decode; an overrun body cap gets
// its own status.
func writeDecodeError(w http.ResponseWriter, r *http.Request, err error, logger *zerolog.Logger) {
	logger.Warn().Err(err).Msg("decode request error")

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		srvsupport.WriteError(w, r, http.StatusRequestEntityTooLarge, "Request entity too large")

		return
	}

	srvsupport.CheckAndWriteError(w, r, err)
}
