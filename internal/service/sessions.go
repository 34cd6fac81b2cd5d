package service

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
	"fmt"
	"sync"
	"time"

	"gitea.com/go-chi/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-spahost/internal/repository"
)

// SessionKeyUserID is the only key the auth layer ever writes: the
// serialized principal id.
const SessionKeyUserID = "user_id"

// SessionStore represents a single database-backed session.
type SessionStore struct {
	repo repository.SessionsRepository
	lock sync.RWMutex
	data map[any]any
	sid  string
}

func NewSessionStore(repo repository.SessionsRepository, sid string, data map[any]any) *SessionStore {
	return &SessionStore{
		repo: repo,
		sid:  sid,
		data: data,
	}
}

// Set sets value to given key in session.
func (s *SessionStore) Set(key, value any) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data[key] = value

	return nil
}

// Get gets value by given key in session.
func (s *SessionStore) Get(key any) any {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.data[key]
}

// Delete delete a key from session.
func (s *SessionStore) Delete(key any) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.data, key)

	return nil
}

// ID returns current session ID.
func (s *SessionStore) ID() string {
	return s.sid
}

// Release persist session values to database; refreshes the sliding
// expiry window.
func (s *SessionStore) Release() error {
	// Skip encoding if the data is empty
	if len(s.data) == 0 {
		return nil
	}

	data, err := session.EncodeGob(s.data)
	if err != nil {
		return fmt.Errorf("session encode error: %w", err)
	}

	if err := s.repo.SaveSession(context.Background(), s.sid, data); err != nil {
		return fmt.Errorf("put session into db error: %w", err)
	}

	return nil
}

// Flush deletes all session data.
func (s *SessionStore) Flush() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	clear(s.data)

	return nil
}

//-------------------------------------------------------------

// SessionProvider is a database-backed session provider; sessions expire
// after maxlifetime since the last write.
type SessionProvider struct {
	repo        repository.SessionsRepository
	maxlifetime time.Duration
	logger      zerolog.Logger
}

func NewSessionProvider(repo repository.SessionsRepository, maxlifetime time.Duration) *SessionProvider {
	return &SessionProvider{
		repo,
		maxlifetime,
		log.Logger.With().Str("module", "session_provider").Logger(),
	}
}

func (p *SessionProvider) Init(gclifetime int64, config string) error {
	// lifetime is configured in the constructor
	_ = gclifetime
	_ = config

	return nil
}

// Read returns raw session store by session ID.
func (p *SessionProvider) Read(sid string) (session.RawStore, error) {
	return p.readOrCreate(context.Background(), sid)
}

// Exist returns true if session with given ID exists.
func (p *SessionProvider) Exist(sid string) (bool, error) {
	exists, err := p.repo.SessionExists(context.Background(), sid)
	if err != nil {
		return false, fmt.Errorf("check session %q exists error: %w", sid, err)
	}

	return exists, nil
}

// Destroy deletes a session by session ID.
func (p *SessionProvider) Destroy(sid string) error {
	if err := p.repo.DeleteSession(context.Background(), sid); err != nil {
		return fmt.Errorf("delete session %q error: %w", sid, err)
	}

	return nil
}

// Regenerate regenerates a session store from old session ID to new one.
func (p *SessionProvider) Regenerate(oldsid, sid string) (session.RawStore, error) {
	p.logger.Debug().Str("sid", sid).Str("old_sid", oldsid).Msg("regenerate session")

	ctx := context.Background()

	if err := p.repo.RegenerateSession(ctx, oldsid, sid); err != nil {
		return nil, fmt.Errorf("regenerate session error: %w", err)
	}

	return p.readOrCreate(ctx, sid)
}

// Count counts and returns number of sessions.
func (p *SessionProvider) Count() (int, error) {
	total, err := p.repo.CountSessions(context.Background())
	if err != nil {
		return 0, fmt.Errorf("count sessions error: %w", err)
	}

	return total, nil
}

// GC cleans expired sessions.
func (p *SessionProvider) GC() {
	p.logger.Debug().Msg("gc sessions")

	if err := p.repo.CleanSessions(context.Background(), p.maxlifetime); err != nil {
		p.logger.Error().Err(err).Msg("gc sessions error")
	}
}

func (p *SessionProvider) readOrCreate(ctx context.Context, sid string) (session.RawStore, error) {
	data, updatedat, err := p.repo.ReadOrCreate(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("read or create session %q from db error: %w", sid, err)
	}

	var kv map[any]any

	if len(data) == 0 || updatedat.Add(p.maxlifetime).Before(time.Now()) {
		kv = make(map[any]any)
	} else {
		kv, err = session.DecodeGob(data)
		if err != nil {
			return nil, fmt.Errorf("decode session error: %w", err)
		}
	}

	return NewSessionStore(p.repo, sid, kv), nil
}
