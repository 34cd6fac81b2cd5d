package assets

//
// static.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"gitlab.com/kabes/go-spahost/internal/aerr"
)

// StaticAssets serve files from the build directory; every path without a
// matching file gets index.html so client-side routing can take over.
type StaticAssets struct {
	dir string
}

func newStaticAssets(dir string) (*StaticAssets, error) {
	stat, err := os.Stat(dir)

	switch {
	case err != nil:
		return nil, aerr.Wrapf(err, "missing build directory, run the client build first").
			WithTag(aerr.ConfigurationError).
			WithMeta("dir", dir)
	case !stat.IsDir():
		return nil, aerr.Newf("build path %q is not a directory", dir).
			WithTag(aerr.ConfigurationError)
	}

	return &StaticAssets{dir: dir}, nil
}

func (s *StaticAssets) Register(r chi.Router) {
	fileserver := http.FileServer(http.Dir(s.dir))

	r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if s.hasFile(req.URL.Path) {
			fileserver.ServeHTTP(w, req)

			return
		}

		// fall through to index.html for client-side routes
		http.ServeFile(w, req, filepath.Join(s.dir, "index.html"))
	}))
}

// hasFile check whether the request path resolves to a regular file
// inside the build directory.
func (s *StaticAssets) hasFile(urlpath string) bool {
	relpath := strings.TrimPrefix(path.Clean("/"+urlpath), "/")
	if relpath == "" {
		return false
	}

	stat, err := os.Stat(filepath.Join(s.dir, filepath.FromSlash(relpath)))

	return err == nil && stat.Mode().IsRegular()
}
