package server

//
// package.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"

	"github.com/samber/do/v2"
)

type sessionMiddleware func(http.Handler) http.Handler

func newSessionMiddlewareI(i do.Injector) (sessionMiddleware, error) {
	mw, err := newSessionMiddleware(i)
	if err != nil {
		return nil, err
	}

	return sessionMiddleware(mw), nil
}

var Package = do.Package(
	do.Lazy(New),
	do.Lazy(newAuthenticator),
	do.Lazy(newSessionMiddlewareI),
)
