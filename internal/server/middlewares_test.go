package server

//
// middlewares_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"gitlab.com/kabes/go-spahost/internal/assert"
)

func TestHeadersMiddleware(t *testing.T) {
	nextCalled := false
	handler := newHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user", nil))

	assert.True(t, nextCalled)
	assert.Equal(t, w.Code, http.StatusNoContent)

	expected := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
		"X-Content-Type-Options":       "nosniff",
		"X-Frame-Options":              "DENY",
		"X-XSS-Protection":             "1; mode=block",
		"Cache-Control":                "no-store, no-cache, must-revalidate",
		"Pragma":                       "no-cache",
	}

	for name, value := range expected {
		assert.Equal(t, w.Header().Get(name), value)
	}
}

func TestHeadersMiddlewareOptions(t *testing.T) {
	nextCalled := false
	handler := newHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/login", nil))

	assert.True(t, !nextCalled)
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Body.Len(), 0)
	assert.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")
	assert.Equal(t, w.Header().Get("Access-Control-Allow-Methods"), "GET, POST, PUT, DELETE, OPTIONS")
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, truncateLine("short", maxLogLine), "short")

	long := strings.Repeat("x", 200)
	res := truncateLine(long, maxLogLine)
	assert.Equal(t, utf8.RuneCountInString(res), maxLogLine)
	assert.True(t, strings.HasSuffix(res, "…"))

	// rune-safe on multibyte content
	multibyte := strings.Repeat("ż", 200)
	res = truncateLine(multibyte, maxLogLine)
	assert.Equal(t, utf8.RuneCountInString(res), maxLogLine)
	assert.True(t, strings.HasSuffix(res, "…"))
}

func TestAPILogLine(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	header := http.Header{}
	header.Set("Content-Type", "application/json; charset=utf-8")
	body := bytes.NewBufferString(`{"message":"Invalid username or password"}` + "\n")

	line := truncateLine(apiLogLine(req, http.StatusUnauthorized, header, body,
		12*time.Millisecond), maxLogLine)

	assert.True(t, strings.HasPrefix(line, "POST /api/login 401 in 12ms :: "))
	assert.True(t, strings.Contains(line, `{"message":"Invalid username or password"`))
	assert.True(t, utf8.RuneCountInString(line) <= maxLogLine)

	// body longer than the limit is cut, marker appended
	body = bytes.NewBufferString(`{"data":"` + strings.Repeat("a", 200) + `"}`)
	line = truncateLine(apiLogLine(req, http.StatusOK, header, body, time.Millisecond),
		maxLogLine)

	assert.Equal(t, utf8.RuneCountInString(line), maxLogLine)
	assert.True(t, strings.HasSuffix(line, "…"))

	// non-json bodies are never appended
	header.Set("Content-Type", "text/html")
	line = apiLogLine(req, http.StatusOK, header, bytes.NewBufferString("<html>"), time.Millisecond)
	assert.True(t, !strings.Contains(line, "::"))
}

func TestRecoverMiddleware(t *testing.T) {
	handler := newRecoverMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user", nil))

	assert.Equal(t, w.Code, http.StatusInternalServerError)
	assert.True(t, strings.Contains(w.Body.String(), `"message"`))
}
