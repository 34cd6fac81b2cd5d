// Package api handle requests to the json api endpoints.
package api

//
// api.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/go-chi/chi/v5"
	"github.com/samber/do/v2"
)

// API is handler for all api endpoints.
type API struct {
	router *chi.Mux
}

func New(i do.Injector) (API, error) {
	authResource := do.MustInvoke[authResource](i)

	router := chi.NewRouter()
	router.Use(maxBodyMiddleware)
	router.Mount("/", authResource.Routes())

	return API{router}, nil
}

func (a *API) Routes() *chi.Mux {
	return a.router
}
