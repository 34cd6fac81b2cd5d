//
// users.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-spahost/internal/aerr"
	"gitlab.com/kabes/go-spahost/internal/common"
	"gitlab.com/kabes/go-spahost/internal/model"
	"gitlab.com/kabes/go-spahost/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type UsersSrv struct {
	usersRepo  repository.UsersRepository
	passHasher PasswordHasher
}

func NewUsersSrv(i do.Injector) (*UsersSrv, error) {
	return &UsersSrv{
		usersRepo:  do.MustInvoke[repository.UsersRepository](i),
		passHasher: BCryptPasswordHasher{},
	}, nil
}

// Authenticate verify credentials and return the principal. Unknown user
// and password mismatch yield the same error so the caller can't tell
// them apart; a disabled account with correct credentials is reported
// separately. Repository failures propagate as internal errors.
func (u *UsersSrv) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" {
		return nil, common.ErrInvalidCredentials
	}

	if password == "" {
		return nil, common.ErrInvalidCredentials
	}

	user, err := u.usersRepo.GetUserByUsername(ctx, username)
	if errors.Is(err, common.ErrNoData) {
		common.TraceErrorLazyPrintf(ctx, "auth: unknown user %q", username)

		return nil, common.ErrInvalidCredentials
	} else if err != nil {
		return nil, aerr.ApplyFor(ErrRepositoryError, err)
	}

	if !u.passHasher.CheckPassword(password, user.Password) {
		common.TraceErrorLazyPrintf(ctx, "auth: password mismatch for %q", username)

		return nil, common.ErrInvalidCredentials
	}

	if !user.Active {
		common.TraceErrorLazyPrintf(ctx, "auth: disabled account %q", username)

		return nil, common.ErrAccountDisabled
	}

	return user, nil
}

// GetUser materialize the principal referenced by a session. A stale id
// yields (nil, nil) so the request proceeds unauthenticated.
func (u *UsersSrv) GetUser(ctx context.Context, userid int64) (*model.User, error) {
	user, err := u.usersRepo.GetUserByID(ctx, userid)
	if errors.Is(err, common.ErrNoData) {
		log.Ctx(ctx).Debug().Int64(common.LogKeyUserID, userid).Msg("users: principal vanished")

		return nil, nil
	} else if err != nil {
		return nil, aerr.ApplyFor(ErrRepositoryError, err)
	}

	return user, nil
}

func (u *UsersSrv) AddUser(ctx context.Context, user model.User, password string) (int64, error) {
	if user.Username == "" {
		return 0, common.ErrEmptyUsername
	}

	if password == "" {
		return 0, aerr.ErrValidation.Clone().WithUserMsg("password can't be empty")
	}

	_, err := u.usersRepo.GetUserByUsername(ctx, user.Username)
	switch {
	case errors.Is(err, common.ErrNoData):
		// ok; user not exists
	case err == nil:
		return 0, common.ErrUserExists
	default:
		return 0, aerr.ApplyFor(ErrRepositoryError, err)
	}

	user.Password, err = u.passHasher.HashPassword(password)
	if err != nil {
		return 0, aerr.Wrapf(err, "hash password failed")
	}

	user.ID = 0
	user.Active = true

	id, err := u.usersRepo.SaveUser(ctx, &user)
	if err != nil {
		return 0, aerr.ApplyFor(ErrRepositoryError, err)
	}

	return id, nil
}

func (u *UsersSrv) ChangePassword(ctx context.Context, username, password string) error {
	if username == "" {
		return common.ErrEmptyUsername
	}

	if password == "" {
		return aerr.ErrValidation.Clone().WithUserMsg("password can't be empty")
	}

	user, err := u.usersRepo.GetUserByUsername(ctx, username)
	if errors.Is(err, common.ErrNoData) {
		return common.ErrUnknownUser
	} else if err != nil {
		return aerr.ApplyFor(ErrRepositoryError, err)
	}

	user.Password, err = u.passHasher.HashPassword(password)
	if err != nil {
		return aerr.Wrapf(err, "hash password failed")
	}

	if _, err := u.usersRepo.SaveUser(ctx, user); err != nil {
		return aerr.ApplyFor(ErrRepositoryError, err)
	}

	return nil
}

// SetActive enable or disable an account. Disabled accounts keep their
// password but can't authenticate.
func (u *UsersSrv) SetActive(ctx context.Context, username string, active bool) error {
	user, err := u.usersRepo.GetUserByUsername(ctx, username)
	if errors.Is(err, common.ErrNoData) {
		return common.ErrUnknownUser
	} else if err != nil {
		return aerr.ApplyFor(ErrRepositoryError, err)
	}

	user.Active = active

	if _, err := u.usersRepo.SaveUser(ctx, user); err != nil {
		return aerr.ApplyFor(ErrRepositoryError, err)
	}

	return nil
}

func (u *UsersSrv) ListUsers(ctx context.Context, activeOnly bool) ([]model.User, error) {
	users, err := u.usersRepo.ListUsers(ctx, activeOnly)
	if err != nil {
		return nil, aerr.ApplyFor(ErrRepositoryError, err)
	}

	return users, nil
}

func (u *UsersSrv) DeleteUser(ctx context.Context, username string) error {
	user, err := u.usersRepo.GetUserByUsername(ctx, username)
	if errors.Is(err, common.ErrNoData) {
		return common.ErrUnknownUser
	} else if err != nil {
		return aerr.ApplyFor(ErrRepositoryError, err)
	}

	if err := u.usersRepo.DeleteUser(ctx, user.ID); err != nil {
		return aerr.ApplyFor(ErrRepositoryError, err)
	}

	return nil
}

//-------------------------------------------------------------

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	CheckPassword(password, hash string) bool
}

type BCryptPasswordHasher struct{}

func (BCryptPasswordHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(hash), err
}

func (BCryptPasswordHasher) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
