// middlewares.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package api

import (
	"net/http"

	"gitlab.com/kabes/go-spahost/internal/common"
	"gitlab.com/kabes/go-spahost/internal/server/srvsupport"
)

// authenticatedOnly reject requests without a principal in context with a
// JSON 401.
func authenticatedOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if common.ContextPrincipal(r.Context()) == nil {
			srvsupport.WriteError(w, r, http.StatusUnauthorized, "Unauthorized")

			return
		}

		next.ServeHTTP(w, r)
	})
}
