package aerr

// common_errors.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

import "github.com/rs/zerolog"

const (
	InternalError      = "internal error"
	ValidationError    = "validation error"
	AuthError          = "auth error"
	ConfigurationError = "configuration error"
)

// LogLevelForError select log level according to error tags; expected
// errors (auth, validation) are warnings only.
func LogLevelForError(err error) zerolog.Level {
	if HasTag(err, AuthError) || HasTag(err, ValidationError) {
		return zerolog.WarnLevel
	}

	return zerolog.ErrorLevel
}

var (
	ErrValidation  = NewSimple("validation error").WithTag(ValidationError)
	ErrInvalidConf = NewSimple("invalid configuration").WithTag(ConfigurationError)
	ErrDatabase    = NewSimple("database error").WithTag(InternalError).WithUserMsg("database error")
)
