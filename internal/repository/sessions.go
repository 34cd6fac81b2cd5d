package repository

//
// sessions.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Licensed under the Apache License, Version 2.0 (the "License"): you may
// not use this file except in compliance with the License.
//
// Based on gitea.com/go-chi/session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gitlab.com/kabes/go-spahost/internal/aerr"
)

var ErrDuplicatedSID = errors.New("sid already exists")

func (r *sqlRepository) ReadOrCreate(ctx context.Context, sid string) ([]byte, time.Time, error) {
	pool := r.db.DB()
	now := time.Now().UTC()

	var (
		data      []byte
		updatedat = now
	)

	err := pool.QueryRowxContext(ctx,
		pool.Rebind("SELECT data, updated_at FROM sessions WHERE key=?"), sid).
		Scan(&data, &updatedat)
	if errors.Is(err, sql.ErrNoRows) {
		_, err := pool.ExecContext(ctx,
			pool.Rebind("INSERT INTO sessions(key, created_at, updated_at) VALUES(?, ?, ?)"),
			sid, now, now)
		if err != nil {
			return nil, now, aerr.Wrapf(err, "insert session failed").WithTag(aerr.InternalError)
		}

		return nil, now, nil
	} else if err != nil {
		return nil, now, aerr.Wrapf(err, "select session failed").WithTag(aerr.InternalError)
	}

	return data, updatedat, nil
}

// SaveSession store data and refresh updated_at; this keeps the lifetime
// window sliding.
func (r *sqlRepository) SaveSession(ctx context.Context, sid string, data []byte) error {
	pool := r.db.DB()

	_, err := pool.ExecContext(ctx,
		pool.Rebind("UPDATE sessions SET data=?, updated_at=? WHERE key=?"),
		data, time.Now().UTC(), sid)
	if err != nil {
		return aerr.Wrapf(err, "update session failed").WithTag(aerr.InternalError)
	}

	return nil
}

func (r *sqlRepository) SessionExists(ctx context.Context, sid string) (bool, error) {
	pool := r.db.DB()

	var one int

	err := pool.GetContext(ctx, &one, pool.Rebind("SELECT 1 FROM sessions WHERE key=?"), sid)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, aerr.Wrapf(err, "check session exists failed").WithTag(aerr.InternalError)
	}
}

func (r *sqlRepository) DeleteSession(ctx context.Context, sid string) error {
	pool := r.db.DB()

	if _, err := pool.ExecContext(ctx, pool.Rebind("DELETE FROM sessions WHERE key=?"), sid); err != nil {
		return aerr.Wrapf(err, "delete session failed").WithTag(aerr.InternalError)
	}

	return nil
}

func (r *sqlRepository) RegenerateSession(ctx context.Context, oldsid, sid string) error {
	pool := r.db.DB()

	tx, err := pool.BeginTxx(ctx, nil)
	if err != nil {
		return aerr.Wrapf(err, "start transaction failed").WithTag(aerr.InternalError)
	}

	defer tx.Rollback() //nolint:errcheck

	var one int

	err = tx.GetContext(ctx, &one, pool.Rebind("SELECT 1 FROM sessions WHERE key=?"), sid)
	if err == nil {
		return ErrDuplicatedSID
	} else if !errors.Is(err, sql.ErrNoRows) {
		return aerr.Wrapf(err, "check session exists failed").WithTag(aerr.InternalError)
	}

	now := time.Now().UTC()

	res, err := tx.ExecContext(ctx,
		pool.Rebind("UPDATE sessions SET key=? WHERE key=?"), sid, oldsid)
	if err != nil {
		return aerr.Wrapf(err, "update session failed").WithTag(aerr.InternalError)
	}

	if updated, err := res.RowsAffected(); err == nil && updated == 0 {
		_, err := tx.ExecContext(ctx,
			pool.Rebind("INSERT INTO sessions(key, created_at, updated_at) VALUES(?, ?, ?)"),
			sid, now, now)
		if err != nil {
			return aerr.Wrapf(err, "insert session failed").WithTag(aerr.InternalError)
		}
	}

	if err := tx.Commit(); err != nil {
		return aerr.Wrapf(err, "commit changes failed").WithTag(aerr.InternalError)
	}

	return nil
}

func (r *sqlRepository) CountSessions(ctx context.Context) (int, error) {
	var total int

	if err := r.db.DB().GetContext(ctx, &total, "SELECT COUNT(*) FROM sessions"); err != nil {
		return 0, aerr.Wrapf(err, "count sessions failed").WithTag(aerr.InternalError)
	}

	return total, nil
}

func (r *sqlRepository) CleanSessions(ctx context.Context, maxlifetime time.Duration) error {
	pool := r.db.DB()
	deadline := time.Now().UTC().Add(-maxlifetime)

	if _, err := pool.ExecContext(ctx,
		pool.Rebind("DELETE FROM sessions WHERE updated_at < ?"), deadline); err != nil {
		return aerr.Wrapf(err, "delete expired sessions failed").WithTag(aerr.InternalError)
	}

	// empty sessions are worthless after a couple of hours
	if _, err := pool.ExecContext(ctx,
		pool.Rebind("DELETE FROM sessions WHERE updated_at < ? AND data IS NULL"),
		time.Now().UTC().Add(-2*time.Hour)); err != nil {
		return aerr.Wrapf(err, "delete empty sessions failed").WithTag(aerr.InternalError)
	}

	return nil
}
