package server

//
// config.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"gitlab.com/kabes/go-spahost/internal/aerr"
	"gitlab.com/kabes/go-spahost/internal/config"
)

type Configuration struct {
	Listen        string
	DebugFlags    config.DebugFlags
	EnableMetrics bool
	CookieSecure  bool
}

func (c *Configuration) Validate() error {
	if c.Listen == "" {
		return aerr.ErrValidation.Clone().WithUserMsg("listen address can't be empty")
	}

	return nil
}
