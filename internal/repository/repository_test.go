package repository

//
// repository_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"testing"
	"time"

	"gitlab.com/kabes/go-spahost/internal/assert"
	"gitlab.com/kabes/go-spahost/internal/common"
	"gitlab.com/kabes/go-spahost/internal/db"
	"gitlab.com/kabes/go-spahost/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

func prepareRepository(t *testing.T, name string) *sqlRepository {
	t.Helper()

	ctx := context.Background()

	database, err := db.NewDatabaseI(nil)
	assert.NoErr(t, err)

	err = database.Connect(ctx, "sqlite3", "file:"+name+"?mode=memory&cache=shared")
	assert.NoErr(t, err)

	t.Cleanup(func() { _ = database.Shutdown(ctx) })

	assert.NoErr(t, database.Migrate(ctx))

	return &sqlRepository{db: database}
}

//-------------------------------------------------------------

func TestUsersCRUD(t *testing.T) {
	repo := prepareRepository(t, "users_crud")
	ctx := context.Background()

	_, err := repo.GetUserByUsername(ctx, "nobody")
	assert.ErrSpec(t, err, common.ErrNoData)

	id, err := repo.SaveUser(ctx, &model.User{
		Username: "alice", Password: "hash", Email: "alice@example.com",
		Name: "Alice", Active: true,
	})
	assert.NoErr(t, err)
	assert.True(t, id > 0)

	user, err := repo.GetUserByUsername(ctx, "alice")
	assert.NoErr(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, user.Email, "alice@example.com")
	assert.True(t, user.Active)

	byid, err := repo.GetUserByID(ctx, id)
	assert.NoErr(t, err)
	assert.Equal(t, byid.Username, "alice")

	// update
	user.Active = false
	user.Name = "Alice A."

	uid, err := repo.SaveUser(ctx, user)
	assert.NoErr(t, err)
	assert.Equal(t, uid, id)

	user, err = repo.GetUserByUsername(ctx, "alice")
	assert.NoErr(t, err)
	assert.Equal(t, user.Name, "Alice A.")
	assert.True(t, !user.Active)

	assert.NoErr(t, repo.DeleteUser(ctx, id))
	assert.ErrSpec(t, repo.DeleteUser(ctx, id), common.ErrNoData)
}

func TestUsersList(t *testing.T) {
	repo := prepareRepository(t, "users_list")
	ctx := context.Background()

	_, err := repo.SaveUser(ctx, &model.User{Username: "alice", Password: "h", Active: true})
	assert.NoErr(t, err)
	_, err = repo.SaveUser(ctx, &model.User{Username: "bob", Password: "h", Active: false})
	assert.NoErr(t, err)

	users, err := repo.ListUsers(ctx, false)
	assert.NoErr(t, err)
	assert.Equal(t, len(users), 2)
	assert.Equal(t, users[0].Username, "alice")

	active, err := repo.ListUsers(ctx, true)
	assert.NoErr(t, err)
	assert.Equal(t, len(active), 1)
	assert.Equal(t, active[0].Username, "alice")
}

//-------------------------------------------------------------

func TestSessionsLifecycle(t *testing.T) {
	repo := prepareRepository(t, "sessions_lifecycle")
	ctx := context.Background()

	exists, err := repo.SessionExists(ctx, "sid1")
	assert.NoErr(t, err)
	assert.True(t, !exists)

	// first read creates an empty row
	data, _, err := repo.ReadOrCreate(ctx, "sid1")
	assert.NoErr(t, err)
	assert.Equal(t, len(data), 0)

	exists, err = repo.SessionExists(ctx, "sid1")
	assert.NoErr(t, err)
	assert.True(t, exists)

	assert.NoErr(t, repo.SaveSession(ctx, "sid1", []byte("payload")))

	data, updatedat, err := repo.ReadOrCreate(ctx, "sid1")
	assert.NoErr(t, err)
	assert.Equal(t, string(data), "payload")
	assert.True(t, time.Since(updatedat) < time.Minute)

	total, err := repo.CountSessions(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, total, 1)

	assert.NoErr(t, repo.DeleteSession(ctx, "sid1"))

	total, err = repo.CountSessions(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, total, 0)
}

func TestSessionsRegenerate(t *testing.T) {
	repo := prepareRepository(t, "sessions_regenerate")
	ctx := context.Background()

	_, _, err := repo.ReadOrCreate(ctx, "old")
	assert.NoErr(t, err)
	assert.NoErr(t, repo.SaveSession(ctx, "old", []byte("payload")))

	assert.NoErr(t, repo.RegenerateSession(ctx, "old", "new"))

	exists, err := repo.SessionExists(ctx, "old")
	assert.NoErr(t, err)
	assert.True(t, !exists)

	data, _, err := repo.ReadOrCreate(ctx, "new")
	assert.NoErr(t, err)
	assert.Equal(t, string(data), "payload")

	// target sid already taken
	_, _, err = repo.ReadOrCreate(ctx, "other")
	assert.NoErr(t, err)
	assert.ErrSpec(t, repo.RegenerateSession(ctx, "other", "new"), ErrDuplicatedSID)
}

func TestSessionsClean(t *testing.T) {
	repo := prepareRepository(t, "sessions_clean")
	ctx := context.Background()

	_, _, err := repo.ReadOrCreate(ctx, "fresh")
	assert.NoErr(t, err)
	assert.NoErr(t, repo.SaveSession(ctx, "fresh", []byte("payload")))

	// recent sessions survive
	assert.NoErr(t, repo.CleanSessions(ctx, time.Hour))

	exists, err := repo.SessionExists(ctx, "fresh")
	assert.NoErr(t, err)
	assert.True(t, exists)

	// everything is older than a negative lifetime
	assert.NoErr(t, repo.CleanSessions(ctx, -time.Hour))

	exists, err = repo.SessionExists(ctx, "fresh")
	assert.NoErr(t, err)
	assert.True(t, !exists)
}
