package server

//
// middlewares.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-spahost/internal/common"
	"gitlab.com/kabes/go-spahost/internal/repository"
	"gitlab.com/kabes/go-spahost/internal/server/srvsupport"
	"gitlab.com/kabes/go-spahost/internal/service"
)

// newHeadersMiddleware set the fixed CORS / security / cache headers on
// every response and answer preflight requests immediately.
func newHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "DENY")
		header.Set("X-XSS-Protection", "1; mode=block")
		header.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		header.Set("Pragma", "no-cache")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)

			return
		}

		next.ServeHTTP(w, r)
	})
}

//-------------------------------------------------------------

const (
	apiPrefix  = "/api"
	maxLogLine = 80
)

// newLogMiddleware log every request; requests under the API prefix get a
// one-line summary with the JSON response body appended, truncated to
// maxLogLine characters unless fullBody is set. Bytes sent to the client
// are never modified.
func newLogMiddleware(fullBody bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			start := time.Now()
			ctx := request.Context()
			requestID, _ := hlog.IDFromCtx(ctx)
			llog := log.With().Str(common.LogKeyReqID, requestID.String()).Logger()
			request = request.WithContext(llog.WithContext(ctx))

			isAPI := strings.HasPrefix(request.URL.Path, apiPrefix)

			llog.Debug().
				Str("url", request.URL.Redacted()).
				Str("remote", request.RemoteAddr).
				Str("method", request.Method).
				Msg("webhandler: request start")

			var respBody bytes.Buffer

			lrw := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
			if isAPI {
				lrw.Tee(&respBody)
			}

			defer func() {
				elapsed := time.Since(start)

				if isAPI {
					line := apiLogLine(request, lrw.Status(), lrw.Header(), &respBody, elapsed)
					if !fullBody {
						line = truncateLine(line, maxLogLine)
					}

					llog.WithLevel(logLevelForStatus(lrw.Status())).Msg(line)

					return
				}

				llog.Debug().
					Str("uri", request.RequestURI).
					Int("status", lrw.Status()).
					Int("size", lrw.BytesWritten()).
					Dur("duration", elapsed).
					Msg("webhandler: request finished")
			}()

			next.ServeHTTP(lrw, request)
		})
	}
}

func apiLogLine(request *http.Request, status int, header http.Header,
	respBody *bytes.Buffer, elapsed time.Duration,
) string {
	line := fmt.Sprintf("%s %s %d in %dms", request.Method, request.URL.Path,
		status, elapsed.Milliseconds())

	if respBody.Len() > 0 &&
		strings.HasPrefix(header.Get("Content-Type"), "application/json") {
		line += " :: " + strings.TrimRight(respBody.String(), "\n")
	}

	return line
}

// truncateLine shorten line to limit characters, rune-safe, with a
// trailing ellipsis marker.
func truncateLine(line string, limit int) string {
	if utf8.RuneCountInString(line) <= limit {
		return line
	}

	runes := []rune(line)

	return string(runes[:limit-1]) + "…"
}

func logLevelForStatus(status int) zerolog.Level {
	if status >= 400 && status != http.StatusNotFound {
		return zerolog.WarnLevel
	}

	return zerolog.InfoLevel
}

//-------------------------------------------------------------

// newRecoverMiddleware convert a handler panic into one logged JSON 500
// response; the error is not propagated further.
func newRecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger := log.Ctx(req.Context())

			switch t := rec.(type) {
			case error:
				logger.Error().Err(t).Msg("panic when handling request")

				if errors.Is(t, http.ErrAbortHandler) {
					panic(t)
				}
			case string:
				logger.Error().Str("err", t).Msg("panic when handling request")
			default:
				logger.Error().Str("err", "unknown error").Msg("panic when handling request")
			}

			if req.Header.Get("Connection") != "Upgrade" {
				srvsupport.WriteError(w, req, http.StatusInternalServerError, "")
			}
		}()

		next.ServeHTTP(w, req)
	})
}

//-------------------------------------------------------------

// authenticator materialize the principal referenced by the session and
// put it into the request context. Stale ids leave the request
// unauthenticated; repository failures terminate with a single 500.
type authenticator struct {
	usersSrv *service.UsersSrv
}

func newAuthenticator(i do.Injector) (authenticator, error) {
	return authenticator{
		usersSrv: do.MustInvoke[*service.UsersSrv](i),
	}, nil
}

func (a authenticator) handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		userid := srvsupport.SessionUserID(sess, service.SessionKeyUserID)
		if userid == 0 {
			next.ServeHTTP(w, r)

			return
		}

		ctx := r.Context()
		logger := hlog.FromRequest(r)

		user, err := a.usersSrv.GetUser(ctx, userid)
		if err != nil {
			logger.Error().Err(err).Int64(common.LogKeyUserID, userid).
				Msg("load session principal error")
			srvsupport.CheckAndWriteError(w, r, err)

			return
		}

		if user == nil {
			// principal vanished; drop the stale session
			_ = sess.Destroy(w, r)

			next.ServeHTTP(w, r)

			return
		}

		llogger := logger.With().Str(common.LogKeyUserName, user.Username).Logger()
		ctx = llogger.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(common.ContextWithPrincipal(ctx, user)))
	})
}

//-------------------------------------------------------------

const sessionMaxLifetime = 30 * 24 * time.Hour

// newSessionMiddleware build the db-backed session manager. The sessioner
// issues a cookie on every request, also before authentication; such a
// cookie authorizes nothing until a successful login stores user_id in it.
func newSessionMiddleware(i do.Injector) (func(http.Handler) http.Handler, error) {
	cfg := do.MustInvoke[*Configuration](i)
	repo := do.MustInvoke[repository.SessionsRepository](i)

	session.RegisterFn("db", func() session.Provider {
		return service.NewSessionProvider(repo, sessionMaxLifetime)
	})

	sess, err := session.Sessioner(session.Options{
		Provider:       "db",
		CookieName:     "sessionid",
		CookiePath:     "/",
		Secure:         cfg.CookieSecure,
		SameSite:       http.SameSiteLaxMode,
		Maxlifetime:    int64(sessionMaxLifetime.Seconds()),
		Gclifetime:     int64((12 * time.Hour).Seconds()),
		CookieLifeTime: int(sessionMaxLifetime.Seconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("start session manager error: %w", err)
	}

	return sess, nil
}
