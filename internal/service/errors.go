package service

//
// errors.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"gitlab.com/kabes/go-spahost/internal/aerr"
)

var ErrRepositoryError = aerr.NewSimple("database error").
	WithTag(aerr.InternalError).
	WithUserMsg("database error")
