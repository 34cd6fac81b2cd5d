// Package assets serve the single-page application files; either a built
// directory or a proxied asset-pipeline dev server, chosen once at startup.
package assets

//
// assets.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/go-chi/chi/v5"
	"github.com/samber/do/v2"
)

// AssetServer register handlers that own every path not claimed by the
// api routes.
type AssetServer interface {
	Register(r chi.Router)
}

type Configuration struct {
	// Production select the static handler; otherwise requests are
	// proxied to the dev server.
	Production   bool
	StaticDir    string
	DevServerURL string
}

// New select and build the asset server; both variants validate their
// target before the listener binds.
func New(i do.Injector) (AssetServer, error) {
	cfg := do.MustInvoke[*Configuration](i)

	if cfg.Production {
		return newStaticAssets(cfg.StaticDir)
	}

	return newDevAssets(cfg.DevServerURL)
}

var Package = do.Package(
	do.Lazy(New),
)
