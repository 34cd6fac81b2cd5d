//
// migrate.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cli

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-spahost/internal/db"
)

func newMigrateCmd() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "update database schema",
		Action: wrap(migrateCmd),
	}
}

//nolint:forbidigo
func migrateCmd(ctx context.Context, _ *cli.Command, injector do.Injector) error {
	database := do.MustInvoke[*db.Database](injector)

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate error: %w", err)
	}

	fmt.Println("Migration finished")

	return nil
}
