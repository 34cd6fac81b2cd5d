package repository

//
// users.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-spahost/internal/aerr"
	"gitlab.com/kabes/go-spahost/internal/common"
	"gitlab.com/kabes/go-spahost/internal/model"
)

const selectUserCols = "id, username, password, email, name, active, created_at, updated_at"

func (r *sqlRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Str(common.LogKeyUserName, username).Msg("repo: get user by username")

	pool := r.db.DB()
	user := model.User{}

	err := pool.GetContext(ctx, &user,
		pool.Rebind("SELECT "+selectUserCols+" FROM users WHERE username=?"),
		username)

	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrNoData
	default:
		return nil, aerr.Wrapf(err, "select user failed").WithTag(aerr.InternalError)
	}
}

func (r *sqlRepository) GetUserByID(ctx context.Context, userid int64) (*model.User, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Int64(common.LogKeyUserID, userid).Msg("repo: get user by id")

	pool := r.db.DB()
	user := model.User{}

	err := pool.GetContext(ctx, &user,
		pool.Rebind("SELECT "+selectUserCols+" FROM users WHERE id=?"),
		userid)

	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrNoData
	default:
		return nil, aerr.Wrapf(err, "select user failed").WithTag(aerr.InternalError)
	}
}

func (r *sqlRepository) SaveUser(ctx context.Context, user *model.User) (int64, error) {
	logger := log.Ctx(ctx)
	pool := r.db.DB()
	now := time.Now().UTC()

	if user.ID == 0 {
		logger.Debug().Str(common.LogKeyUserName, user.Username).Msg("repo: insert user")

		res, err := pool.ExecContext(ctx,
			pool.Rebind("INSERT INTO users (username, password, email, name, active, created_at, updated_at) "+
				"VALUES(?, ?, ?, ?, ?, ?, ?)"),
			user.Username, user.Password, user.Email, user.Name, user.Active, now, now)
		if err != nil {
			return 0, aerr.Wrapf(err, "insert user failed").WithTag(aerr.InternalError)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return 0, aerr.Wrapf(err, "get insert id failed").WithTag(aerr.InternalError)
		}

		return id, nil
	}

	logger.Debug().Int64(common.LogKeyUserID, user.ID).Msg("repo: update user")

	_, err := pool.ExecContext(ctx,
		pool.Rebind("UPDATE users SET password=?, email=?, name=?, active=?, updated_at=? WHERE id=?"),
		user.Password, user.Email, user.Name, user.Active, now, user.ID)
	if err != nil {
		return 0, aerr.Wrapf(err, "update user failed").WithTag(aerr.InternalError)
	}

	return user.ID, nil
}

func (r *sqlRepository) ListUsers(ctx context.Context, activeOnly bool) ([]model.User, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Msgf("repo: list users, active_only=%v", activeOnly)

	query := "SELECT " + selectUserCols + " FROM users"
	if activeOnly {
		query += " WHERE active"
	}

	query += " ORDER BY username"

	var users []model.User

	if err := r.db.DB().SelectContext(ctx, &users, query); err != nil {
		return nil, aerr.Wrapf(err, "select users failed").WithTag(aerr.InternalError)
	}

	return users, nil
}

func (r *sqlRepository) DeleteUser(ctx context.Context, userid int64) error {
	logger := log.Ctx(ctx)
	logger.Debug().Int64(common.LogKeyUserID, userid).Msg("repo: delete user")

	pool := r.db.DB()

	res, err := pool.ExecContext(ctx, pool.Rebind("DELETE FROM users WHERE id=?"), userid)
	if err != nil {
		return aerr.Wrapf(err, "delete user failed").
			WithTag(aerr.InternalError).WithMeta(common.LogKeyUserID, userid)
	}

	if deleted, err := res.RowsAffected(); err == nil && deleted == 0 {
		return common.ErrNoData
	}

	return nil
}
