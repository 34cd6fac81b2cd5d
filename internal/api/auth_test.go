package api

//
// auth_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-spahost/internal/assert"
	"gitlab.com/kabes/go-spahost/internal/common"
	"gitlab.com/kabes/go-spahost/internal/model"
	"gitlab.com/kabes/go-spahost/internal/repository"
	"gitlab.com/kabes/go-spahost/internal/server/srvsupport"
	"gitlab.com/kabes/go-spahost/internal/service"
	"golang.org/x/crypto/bcrypt"
)

//-------------------------------------------------------------

type fakeUsersRepo struct {
	users map[string]*model.User
}

func (f *fakeUsersRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := f.users[username]; ok {
		clone := *u

		return &clone, nil
	}

	return nil, common.ErrNoData
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, userid int64) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == userid {
			clone := *u

			return &clone, nil
		}
	}

	return nil, common.ErrNoData
}

func (f *fakeUsersRepo) SaveUser(_ context.Context, user *model.User) (int64, error) {
	f.users[user.Username] = user

	return user.ID, nil
}

func (f *fakeUsersRepo) ListUsers(_ context.Context, _ bool) ([]model.User, error) {
	return nil, nil
}

func (f *fakeUsersRepo) DeleteUser(_ context.Context, userid int64) error {
	for name, u := range f.users {
		if u.ID == userid {
			delete(f.users, name)
		}
	}

	return nil
}

//-------------------------------------------------------------

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoErr(t, err)

	return string(hash)
}

func prepareTestRouter(t *testing.T, repo repository.UsersRepository) http.Handler {
	t.Helper()

	injector := do.New()
	do.Provide(injector, func(do.Injector) (repository.UsersRepository, error) { return repo, nil })
	do.Provide(injector, service.NewUsersSrv)
	do.Provide(injector, newAuthResource)
	do.Provide(injector, New)

	api := do.MustInvoke[API](injector)
	usersSrv := do.MustInvoke[*service.UsersSrv](injector)

	sessioner, err := session.Sessioner(session.Options{
		Provider:   "memory",
		CookieName: "sessionid",
	})
	assert.NoErr(t, err)

	// same principal loading the server does in front of the api
	loadPrincipal := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.GetSession(r)
			if userid := srvsupport.SessionUserID(sess, service.SessionKeyUserID); userid != 0 {
				if user, uerr := usersSrv.GetUser(r.Context(), userid); uerr == nil && user != nil {
					r = r.WithContext(common.ContextWithPrincipal(r.Context(), user))
				}
			}

			next.ServeHTTP(w, r)
		})
	}

	router := chi.NewRouter()
	router.Use(sessioner)
	router.Use(loadPrincipal)
	router.Mount("/api", api.Routes())

	return router
}

func sessionCookies(resp *http.Response) []*http.Cookie {
	return resp.Cookies()
}

func doRequest(t *testing.T, router http.Handler, method, target, body string,
	cookies []*http.Cookie,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func testUsers(t *testing.T) *fakeUsersRepo {
	t.Helper()

	now := time.Now().UTC()

	return &fakeUsersRepo{users: map[string]*model.User{
		"alice": {
			ID: 1, Username: "alice", Password: hashPassword(t, "secret1"),
			Email: "alice@example.com", Name: "Alice", Active: true,
			CreatedAt: now, UpdatedAt: now,
		},
		"mallory": {
			ID: 2, Username: "mallory", Password: hashPassword(t, "secret2"),
			Active:    false,
			CreatedAt: now, UpdatedAt: now,
		},
	}}
}

//-------------------------------------------------------------

func TestLoginSuccess(t *testing.T) {
	router := prepareTestRouter(t, testUsers(t))

	w := doRequest(t, router, http.MethodPost, "/api/login",
		`{"username":"alice","password":"secret1"}`, nil)

	assert.Equal(t, w.Code, http.StatusOK)
	assert.True(t, strings.Contains(w.Body.String(), `"alice"`))
	// sanitized: hash never leaves the server
	assert.True(t, !strings.Contains(w.Body.String(), "$2a$"))

	// the session carries the principal now
	cookies := sessionCookies(w.Result())
	assert.True(t, len(cookies) > 0)

	w = doRequest(t, router, http.MethodGet, "/api/user", "", cookies)
	assert.Equal(t, w.Code, http.StatusOK)
	assert.True(t, strings.Contains(w.Body.String(), `"alice"`))
}

func TestLoginWrongPassword(t *testing.T) {
	router := prepareTestRouter(t, testUsers(t))

	w := doRequest(t, router, http.MethodPost, "/api/login",
		`{"username":"alice","password":"wrong"}`, nil)

	assert.Equal(t, w.Code, http.StatusUnauthorized)
	assert.True(t, strings.Contains(w.Body.String(), `"message":"Invalid username or password"`))

	// no principal was stored in the session
	w = doRequest(t, router, http.MethodGet, "/api/user", "", sessionCookies(w.Result()))
	assert.Equal(t, w.Code, http.StatusUnauthorized)
}

func TestLoginUnknownUserIndistinguishable(t *testing.T) {
	router := prepareTestRouter(t, testUsers(t))

	wrongPass := doRequest(t, router, http.MethodPost, "/api/login",
		`{"username":"alice","password":"wrong"}`, nil)
	unknownUser := doRequest(t, router, http.MethodPost, "/api/login",
		`{"username":"nobody","password":"secret1"}`, nil)

	assert.Equal(t, wrongPass.Code, unknownUser.Code)
	assert.Equal(t, wrongPass.Body.String(), unknownUser.Body.String())
}

func TestLoginDisabledAccount(t *testing.T) {
	router := prepareTestRouter(t, testUsers(t))

	w := doRequest(t, router, http.MethodPost, "/api/login",
		`{"username":"mallory","password":"secret2"}`, nil)

	assert.Equal(t, w.Code, http.StatusUnauthorized)
	assert.True(t, strings.Contains(w.Body.String(), `"message":"Account is disabled"`))
}

func TestLoginInvalidBody(t *testing.T) {
	router := prepareTestRouter(t, testUsers(t))

	w := doRequest(t, router, http.MethodPost, "/api/login", `{"username":`, nil)

	assert.Equal(t, w.Code, http.StatusBadRequest)
	assert.True(t, strings.Contains(w.Body.String(), `"message"`))
}

func TestCurrentUserUnauthenticated(t *testing.T) {
	router := prepareTestRouter(t, testUsers(t))

	w := doRequest(t, router, http.MethodGet, "/api/user", "", nil)

	assert.Equal(t, w.Code, http.StatusUnauthorized)
	assert.True(t, strings.Contains(w.Body.String(), `"message":"Unauthorized"`))
}

func TestLogout(t *testing.T) {
	router := prepareTestRouter(t, testUsers(t))

	w := doRequest(t, router, http.MethodPost, "/api/login",
		`{"username":"alice","password":"secret1"}`, nil)
	assert.Equal(t, w.Code, http.StatusOK)

	cookies := sessionCookies(w.Result())

	w = doRequest(t, router, http.MethodPost, "/api/logout", "", cookies)
	assert.Equal(t, w.Code, http.StatusOK)

	w = doRequest(t, router, http.MethodGet, "/api/user", "", cookies)
	assert.Equal(t, w.Code, http.StatusUnauthorized)
}

func TestStaleSessionPrincipal(t *testing.T) {
	repo := testUsers(t)
	router := prepareTestRouter(t, repo)

	w := doRequest(t, router, http.MethodPost, "/api/login",
		`{"username":"alice","password":"secret1"}`, nil)
	assert.Equal(t, w.Code, http.StatusOK)

	cookies := sessionCookies(w.Result())

	// the account vanishes while the session lives on
	delete(repo.users, "alice")

	w = doRequest(t, router, http.MethodGet, "/api/user", "", cookies)
	assert.Equal(t, w.Code, http.StatusUnauthorized)
}
