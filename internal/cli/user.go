package cli

//
// user.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-spahost/internal/model"
	"gitlab.com/kabes/go-spahost/internal/service"
	"golang.org/x/term"
)

//---------------------------------------------------------------------

func newAddUserCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "add new user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true, Aliases: []string{"u"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}},
		},
		Action: wrap(addUserCmd),
	}
}

//nolint:forbidigo
func addUserCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	pass, err := readValidatePassword(clicmd.String("password"))
	if err != nil {
		return err
	}

	username := clicmd.String("username")
	usersrv := do.MustInvoke[*service.UsersSrv](injector)

	user := model.User{
		Username: username,
		Email:    clicmd.String("email"),
		Name:     clicmd.String("name"),
		Active:   true,
	}

	userid, err := usersrv.AddUser(ctx, user, pass)
	if err != nil {
		return fmt.Errorf("add user error: %w", err)
	}

	fmt.Printf("User %q created; id: %d\n", username, userid)

	return nil
}

//---------------------------------------------------------------------

func newChangeUserPasswordCmd() *cli.Command {
	return &cli.Command{
		Name:  "password",
		Usage: "set new user password",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true, Aliases: []string{"u"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}},
		},
		Action: wrap(changeUserPasswordCmd),
	}
}

//nolint:forbidigo
func changeUserPasswordCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	pass, err := readValidatePassword(clicmd.String("password"))
	if err != nil {
		return err
	}

	username := clicmd.String("username")
	usersrv := do.MustInvoke[*service.UsersSrv](injector)

	if err := usersrv.ChangePassword(ctx, username, pass); err != nil {
		return fmt.Errorf("change user password error: %w", err)
	}

	fmt.Printf("Changed password for user %q\n", username)

	return nil
}

func readValidatePassword(pass string) (string, error) {
	pass = strings.TrimSpace(pass)
	if pass == "" {
		//nolint:forbidigo
		fmt.Print("Enter new password: ")

		bytepw, err := term.ReadPassword(syscall.Stdin)
		if err != nil {
			return "", fmt.Errorf("read password error: %w", err)
		}

		pass = strings.TrimSpace(string(bytepw))
	}

	if pass == "" {
		return "", errors.New("password can't be empty") //nolint:err113
	}

	return pass, nil
}

//---------------------------------------------------------------------

func newLockUserCmd() *cli.Command {
	return &cli.Command{
		Name:  "lock",
		Usage: "deactivate user account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true, Aliases: []string{"u"}},
		},
		Action: wrap(setUserActiveCmd(false)),
	}
}

func newUnlockUserCmd() *cli.Command {
	return &cli.Command{
		Name:  "unlock",
		Usage: "activate user account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true, Aliases: []string{"u"}},
		},
		Action: wrap(setUserActiveCmd(true)),
	}
}

//nolint:forbidigo
func setUserActiveCmd(active bool) func(context.Context, *cli.Command, do.Injector) error {
	return func(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
		username := clicmd.String("username")
		usersrv := do.MustInvoke[*service.UsersSrv](injector)

		if err := usersrv.SetActive(ctx, username, active); err != nil {
			return fmt.Errorf("change user account state error: %w", err)
		}

		if active {
			fmt.Printf("User %q unlocked\n", username)
		} else {
			fmt.Printf("User %q locked\n", username)
		}

		return nil
	}
}

//---------------------------------------------------------------------

func newListUsersCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list user accounts",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "active-only", Usage: "show active only accounts", Aliases: []string{"a"}},
		},
		Action: wrap(listUsersCmd),
	}
}

//nolint:forbidigo
func listUsersCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	usersrv := do.MustInvoke[*service.UsersSrv](injector)

	users, err := usersrv.ListUsers(ctx, clicmd.Bool("active-only"))
	if err != nil {
		return fmt.Errorf("get users error: %w", err)
	}

	fmt.Printf("%-30s | %-30s | %-30s | %s \n", "User name", "Name", "Email", "Status")
	fmt.Println(
		"---------------------------------------------------------------------------------------------------------",
	)

	for _, u := range users {
		status := ""
		if !u.Active {
			status = "LOCKED"
		}

		fmt.Printf("%-30s | %-30s | %-30s | %s \n", u.Username, u.Name, u.Email, status)
	}

	return nil
}

//---------------------------------------------------------------------

func newDeleteUserCmd() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "delete user account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true, Aliases: []string{"u"}},
		},
		Action: wrap(deleteUserCmd),
	}
}

func deleteUserCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	username := clicmd.String("username")
	usersrv := do.MustInvoke[*service.UsersSrv](injector)

	if err := usersrv.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("delete user error: %w", err)
	}

	//nolint:forbidigo
	fmt.Printf("User %s deleted\n", username)

	return nil
}
