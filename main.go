// LifeLink TUI - a terminal client for the LifeLink blood donation platform.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lifelink/lifelink-tui/internal/cli"
	"github.com/lifelink/lifelink-tui/internal/config"
	"github.com/lifelink/lifelink-tui/internal/ui"
	"github.com/lifelink/lifelink-tui/internal/ui/styles"
)

// configDebounce is how long config file events must settle before a reload.
const configDebounce = 500 * time.Millisecond

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		if err := cli.HandleLogin(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdLogout:
		if err := cli.HandleLogout(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdWhoami:
		if err := cli.HandleWhoami(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdAsk:
		if err := cli.HandleAsk(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdChat:
		if err := cli.HandleChat(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdHealth:
		if err := cli.HandleHealth(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdHistory:
		if err := cli.HandleHistory(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(args)
	}
}

// runTUI starts the full-screen interface over the same wiring the
// command handlers use.
func runTUI(args cli.Args) {
	app, err := cli.NewApp(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}

	// Hot-reload config edits while the interface runs. Watch failures are
	// non-fatal; the session just keeps its startup configuration.
	if watcher, werr := config.NewWatcher(configDebounce, nil); werr == nil {
		if werr = watcher.Watch(); werr != nil {
			log.Printf("config watch unavailable: %v", werr)
		}
		defer watcher.Close()
	}

	theme := styles.NewTheme()
	root := ui.NewApp(theme, ui.Deps{
		Session:   app.Session,
		Assistant: app.Assistant,
		History:   app.History,
		API:       app.API,
	})

	p := tea.NewProgram(
		root,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running lifelink: %v\n", err)
		os.Exit(1)
	}
}
