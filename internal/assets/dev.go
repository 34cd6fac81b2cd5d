package assets

//
// dev.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-spahost/internal/aerr"
)

// DevAssets proxy asset requests to the running asset-pipeline dev
// server; used only outside production.
type DevAssets struct {
	proxy  *httputil.ReverseProxy
	target *url.URL
}

func newDevAssets(rawurl string) (*DevAssets, error) {
	target, err := url.Parse(rawurl)
	if err != nil {
		return nil, aerr.Wrapf(err, "invalid dev server url").
			WithTag(aerr.ConfigurationError).
			WithMeta("url", rawurl)
	}

	if target.Scheme == "" || target.Host == "" {
		return nil, aerr.Newf("invalid dev server url %q", rawurl).
			WithTag(aerr.ConfigurationError)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Ctx(r.Context()).Error().Err(err).
			Str("target", target.String()).
			Msg("DevAssets: proxy error")

		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, render.M{"message": "dev server unavailable"})
	}

	return &DevAssets{proxy: proxy, target: target}, nil
}

func (d *DevAssets) Register(r chi.Router) {
	r.Handle("/*", d.proxy)
}
