package api

// auth.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

import (
	"context"
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-spahost/internal/aerr"
	"gitlab.com/kabes/go-spahost/internal/common"
	"gitlab.com/kabes/go-spahost/internal/server/srvsupport"
	"gitlab.com/kabes/go-spahost/internal/service"
)

// authResource handle login, logout and the current-user endpoint.
type authResource struct {
	usersSrv *service.UsersSrv
}

func newAuthResource(i do.Injector) (authResource, error) {
	return authResource{
		usersSrv: do.MustInvoke[*service.UsersSrv](i),
	}, nil
}

func (ar authResource) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Post("/login", srvsupport.WrapNamed(ar.login, "api_login"))
	r.With(authenticatedOnly).Post("/logout", srvsupport.WrapNamed(ar.logout, "api_logout"))
	r.With(authenticatedOnly).Get("/user", srvsupport.WrapNamed(ar.currentUser, "api_user"))

	return r
}

func (ar authResource) login(ctx context.Context, w http.ResponseWriter, r *http.Request, logger *zerolog.Logger) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := decodeJSON(r, &creds); err != nil {
		writeDecodeError(w, r, err, logger)

		return
	}

	user, err := ar.usersSrv.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		logger.WithLevel(aerr.LogLevelForError(err)).Err(err).
			Str(common.LogKeyUserName, creds.Username).
			Str(common.LogKeyAuthResult, common.LogAuthResultFailed).
			Msg("AuthResource: login failed")
		srvsupport.CheckAndWriteError(w, r, err)

		return
	}

	sess := session.GetSession(r)
	if err := sess.Set(service.SessionKeyUserID, user.ID); err != nil {
		logger.Error().Err(err).Msg("AuthResource: store session error")
		srvsupport.WriteError(w, r, http.StatusInternalServerError, "")

		return
	}

	logger.Info().
		Str(common.LogKeyUserName, user.Username).
		Str(common.LogKeyAuthResult, common.LogAuthResultSuccess).
		Msg("AuthResource: user logged in")

	render.Status(r, http.StatusOK)
	render.JSON(w, r, user)
}

func (ar authResource) logout(ctx context.Context, w http.ResponseWriter, r *http.Request, logger *zerolog.Logger) {
	sess := session.GetSession(r)
	user := common.ContextPrincipal(ctx)

	logger.Info().Str(common.LogKeyUserName, user.Username).Msg("AuthResource: logout user")

	sess.Flush() //nolint:errcheck
	_ = sess.Destroy(w, r)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, render.M{"message": "Logged out"})
}

func (ar authResource) currentUser(ctx context.Context, w http.ResponseWriter, r *http.Request, _ *zerolog.Logger) {
	user := common.ContextPrincipal(ctx)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, user)
}
