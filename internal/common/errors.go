package common

//
// Common application errors
//
// errors.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"

	"gitlab.com/kabes/go-spahost/internal/aerr"
)

// Authentication errors. Unknown user and wrong password share one user
// message so the response does not disclose which part was wrong.
var (
	ErrInvalidCredentials = aerr.NewSimple("invalid credentials").
				WithTag(aerr.AuthError).
				WithUserMsg("Invalid username or password")
	ErrAccountDisabled = aerr.NewSimple("account disabled").
				WithTag(aerr.AuthError).
				WithUserMsg("Account is disabled")
)

// Validation errors.
var (
	ErrUnknownUser   = aerr.NewSimple("unknown user").WithTag(aerr.ValidationError)
	ErrEmptyUsername = aerr.NewSimple("username can't be empty").WithTag(aerr.ValidationError)
	ErrUserExists    = aerr.NewSimple("username exists").WithUserMsg("user name already exists")
)

// ErrNoData is returned by repositories when a query yields no row.
var ErrNoData = errors.New("no result")
