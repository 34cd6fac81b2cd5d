package service

//
// users_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"testing"

	"gitlab.com/kabes/go-spahost/internal/assert"
	"gitlab.com/kabes/go-spahost/internal/common"
	"gitlab.com/kabes/go-spahost/internal/model"
)

type memUsersRepo struct {
	users  map[string]*model.User
	nextid int64
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{users: make(map[string]*model.User), nextid: 1}
}

func (m *memUsersRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users[username]; ok {
		clone := *u

		return &clone, nil
	}

	return nil, common.ErrNoData
}

func (m *memUsersRepo) GetUserByID(_ context.Context, userid int64) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == userid {
			clone := *u

			return &clone, nil
		}
	}

	return nil, common.ErrNoData
}

func (m *memUsersRepo) SaveUser(_ context.Context, user *model.User) (int64, error) {
	if user.ID == 0 {
		user.ID = m.nextid
		m.nextid++
	}

	clone := *user
	m.users[user.Username] = &clone

	return user.ID, nil
}

func (m *memUsersRepo) ListUsers(_ context.Context, activeOnly bool) ([]model.User, error) {
	var res []model.User

	for _, u := range m.users {
		if !activeOnly || u.Active {
			res = append(res, *u)
		}
	}

	return res, nil
}

func (m *memUsersRepo) DeleteUser(_ context.Context, userid int64) error {
	for name, u := range m.users {
		if u.ID == userid {
			delete(m.users, name)

			return nil
		}
	}

	return common.ErrNoData
}

//-------------------------------------------------------------

func prepareUsersSrv(t *testing.T) (*UsersSrv, *memUsersRepo) {
	t.Helper()

	repo := newMemUsersRepo()
	srv := &UsersSrv{usersRepo: repo, passHasher: BCryptPasswordHasher{}}

	_, err := srv.AddUser(context.Background(),
		model.User{Username: "alice", Email: "alice@example.com"}, "secret1")
	assert.NoErr(t, err)

	return srv, repo
}

func TestAuthenticate(t *testing.T) {
	srv, _ := prepareUsersSrv(t)
	ctx := context.Background()

	user, err := srv.Authenticate(ctx, "alice", "secret1")
	assert.NoErr(t, err)
	assert.Equal(t, user.Username, "alice")

	_, err = srv.Authenticate(ctx, "alice", "wrong")
	assert.ErrSpec(t, err, common.ErrInvalidCredentials)

	_, err = srv.Authenticate(ctx, "", "secret1")
	assert.ErrSpec(t, err, common.ErrInvalidCredentials)

	_, err = srv.Authenticate(ctx, "alice", "")
	assert.ErrSpec(t, err, common.ErrInvalidCredentials)
}

func TestAuthenticateUnknownUserIndistinguishable(t *testing.T) {
	srv, _ := prepareUsersSrv(t)
	ctx := context.Background()

	_, errWrongPass := srv.Authenticate(ctx, "alice", "wrong")
	_, errUnknown := srv.Authenticate(ctx, "nobody", "secret1")

	assert.ErrSpec(t, errWrongPass, common.ErrInvalidCredentials)
	assert.ErrSpec(t, errUnknown, common.ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errUnknown.Error())
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	srv, _ := prepareUsersSrv(t)
	ctx := context.Background()

	assert.NoErr(t, srv.SetActive(ctx, "alice", false))

	// correct password, disabled account
	_, err := srv.Authenticate(ctx, "alice", "secret1")
	assert.ErrSpec(t, err, common.ErrAccountDisabled)

	assert.NoErr(t, srv.SetActive(ctx, "alice", true))

	_, err = srv.Authenticate(ctx, "alice", "secret1")
	assert.NoErr(t, err)
}

func TestGetUserStaleID(t *testing.T) {
	srv, _ := prepareUsersSrv(t)
	ctx := context.Background()

	user, err := srv.GetUser(ctx, 12345)
	assert.NoErr(t, err)
	assert.True(t, user == nil)
}

func TestAddUserDuplicate(t *testing.T) {
	srv, _ := prepareUsersSrv(t)
	ctx := context.Background()

	_, err := srv.AddUser(ctx, model.User{Username: "alice"}, "other")
	assert.ErrSpec(t, err, common.ErrUserExists)

	_, err = srv.AddUser(ctx, model.User{Username: ""}, "pass")
	assert.ErrSpec(t, err, common.ErrEmptyUsername)

	_, err = srv.AddUser(ctx, model.User{Username: "bob"}, "")
	assert.Err(t, err)
}

func TestChangePassword(t *testing.T) {
	srv, _ := prepareUsersSrv(t)
	ctx := context.Background()

	assert.NoErr(t, srv.ChangePassword(ctx, "alice", "newpass"))

	_, err := srv.Authenticate(ctx, "alice", "secret1")
	assert.ErrSpec(t, err, common.ErrInvalidCredentials)

	user, err := srv.Authenticate(ctx, "alice", "newpass")
	assert.NoErr(t, err)
	assert.Equal(t, user.Username, "alice")

	assert.ErrSpec(t, srv.ChangePassword(ctx, "nobody", "x"), common.ErrUnknownUser)
}

func TestDeleteUser(t *testing.T) {
	srv, repo := prepareUsersSrv(t)
	ctx := context.Background()

	assert.NoErr(t, srv.DeleteUser(ctx, "alice"))
	assert.Equal(t, len(repo.users), 0)

	assert.ErrSpec(t, srv.DeleteUser(ctx, "alice"), common.ErrUnknownUser)
}
