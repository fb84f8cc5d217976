// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - login, logout and whoami command handlers.
//
// Command: login
// Short:   Sign in to the LifeLink platform
//
// Examples:
//
//	lifelink login donor@example.org    Sign in (password prompted)
//	lifelink logout                     Sign out
//	lifelink whoami                     Show the signed-in account
//	lifelink whoami --json              Machine-readable account info
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lifelink/lifelink-tui/internal/model"
)

// HandleLogin handles the "login" command.
func HandleLogin(args Args) error {
	email := strings.TrimSpace(args.Email)
	if email == "" {
		return ErrMissingArgument("email", "lifelink login donor@example.org")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return NewCommandError("login", "cannot read password", err)
	}

	app, err := NewApp(args)
	if err != nil {
		return err
	}

	if err := app.Session.Login(context.Background(), email, password); err != nil {
		// The session stores the server's own message; prefer it.
		if msg := app.Session.Err(); msg != "" {
			return errors.New(msg)
		}
		return err
	}

	user := app.Session.User()
	if args.JSON {
		if !args.Quiet {
			StderrPrintln("Signed in as", user.Name)
		}
		return NewJSONResponse("login", user).Print()
	}
	if !args.Quiet {
		fmt.Printf("%s Signed in as %s (%s)\n",
			SuccessStyle.Render("[OK]"), user.Name, user.Role.DisplayName())
	}
	return nil
}

// HandleLogout handles the "logout" command. Local state is dropped
// even when the remote call fails.
func HandleLogout(args Args) error {
	app, err := NewApp(args)
	if err != nil {
		return err
	}

	app.Session.Restore(context.Background())
	app.Session.Logout(context.Background())

	if msg := app.Session.Err(); msg != "" && !args.Quiet {
		fmt.Println(WarningStyle.Render("[WARN]"), msg)
	}

	if args.JSON {
		return NewJSONResponse("logout", map[string]bool{"signed_out": true}).Print()
	}
	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("[OK]"), "Signed out")
	}
	return nil
}

// whoamiData is the JSON payload for whoami.
type whoamiData struct {
	User     *model.User `json:"user"`
	SignedIn bool        `json:"signed_in"`
}

// HandleWhoami handles the "whoami" command.
func HandleWhoami(args Args) error {
	app, err := NewApp(args)
	if err != nil {
		return err
	}

	app.Session.Restore(context.Background())
	user := app.Session.User()

	return OutputJSON(args.JSON, "whoami", func() (interface{}, error) {
		if args.JSON {
			return whoamiData{User: user, SignedIn: user != nil}, nil
		}

		if user == nil {
			fmt.Println(DimStyle.Render("Not signed in. Run: lifelink login <email>"))
			return nil, nil
		}

		fmt.Println(TitleStyle.Render("Account"))
		fmt.Printf("%s %s\n", LabelStyle.Render("Name"), ValueStyle.Render(user.Name))
		fmt.Printf("%s %s\n", LabelStyle.Render("Email"), ValueStyle.Render(user.Email))
		fmt.Printf("%s %s\n", LabelStyle.Render("Role"), ValueStyle.Render(user.Role.DisplayName()))
		if user.Phone != "" {
			fmt.Printf("%s %s\n", LabelStyle.Render("Phone"), ValueStyle.Render(user.Phone))
		}
		return nil, nil
	})
}
