package repository

//
// repository.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"time"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-spahost/internal/db"
	"gitlab.com/kabes/go-spahost/internal/model"
)

type UsersRepository interface {
	// GetUserByUsername; return common.ErrNoData when user not exists.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, userid int64) (*model.User, error)
	// SaveUser insert (ID == 0) or update user; return user id.
	SaveUser(ctx context.Context, user *model.User) (int64, error)
	ListUsers(ctx context.Context, activeOnly bool) ([]model.User, error)
	DeleteUser(ctx context.Context, userid int64) error
}

type SessionsRepository interface {
	// ReadOrCreate session data; create empty row when sid not exists.
	ReadOrCreate(ctx context.Context, sid string) ([]byte, time.Time, error)
	SaveSession(ctx context.Context, sid string, data []byte) error
	SessionExists(ctx context.Context, sid string) (bool, error)
	DeleteSession(ctx context.Context, sid string) error
	RegenerateSession(ctx context.Context, oldsid, sid string) error
	CountSessions(ctx context.Context) (int, error)
	// CleanSessions delete sessions untouched for maxlifetime.
	CleanSessions(ctx context.Context, maxlifetime time.Duration) error
}

//-------------------------------------------------------------

// sqlRepository implements all repositories over the shared sqlx pool;
// works with both supported drivers (queries are rebound).
type sqlRepository struct {
	db *db.Database
}

func newSQLRepository(i do.Injector) *sqlRepository {
	return &sqlRepository{db: do.MustInvoke[*db.Database](i)}
}

//nolint:gochecknoglobals
var Package = do.Package(
	do.Lazy(func(i do.Injector) (UsersRepository, error) {
		return newSQLRepository(i), nil
	}),
	do.Lazy(func(i do.Injector) (SessionsRepository, error) {
		return newSQLRepository(i), nil
	}),
)
