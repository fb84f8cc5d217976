// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for lifelink.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdWhoami
	CmdAsk
	CmdChat
	CmdHealth
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	NoColor bool

	// Command-specific
	Query      string
	Email      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `lifelink - terminal client for the LifeLink blood-donation platform

Lifelink connects to a LifeLink deployment from the command line.

It provides:
  - Sign-in against the platform's auth API
  - A chat assistant for donation questions
  - Dashboard data (events, blood requests, donations)
  - Local chat history with a 24-hour retention window

Usage:
  lifelink                    Start TUI (default)
  lifelink login <email>      Sign in (password prompted, never echoed)
  lifelink logout             Sign out and drop the stored credential
  lifelink whoami             Show the signed-in account
  lifelink ask "question"     Ask the assistant a single question
  lifelink chat               Interactive assistant chat
  lifelink health             Check assistant service availability
  lifelink history [show|clear|export]  Manage saved chat history
  lifelink config [show|set|path]  Configuration
  lifelink version            Show version information
  lifelink help               Show this help

Chat Commands (during lifelink chat):
  /help               Show available commands
  /clear              Clear the conversation and saved history
  /history            Show the saved conversation
  /health             Check assistant availability
  /quit               Exit chat
  Ctrl+D              Exit chat

Global Flags:
  --json          Output in JSON format
  -q, --quiet     Minimal output
  -v, --verbose   Debug output
  --no-color      Disable colored output

Examples:
  lifelink                              Start the TUI
  lifelink login donor@example.org      Sign in
  lifelink ask "Can I donate after a tattoo?"
  lifelink chat                         Start interactive chat
  lifelink history show                 Show the saved conversation
  lifelink history clear                Forget the saved conversation
  lifelink history export md chat.md    Export the saved conversation
  lifelink config show                  Show current configuration
  lifelink config set chatbot.url http://127.0.0.1:9000
  lifelink health --json                Machine-readable health check

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("lifelink version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

// parseArgs is Parse split out for tests.
func parseArgs(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// No remaining args: default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "login":
		if len(remaining) > 0 {
			parsedArgs.Email = remaining[0]
		}
		return CmdLogin, parsedArgs

	case "logout":
		return CmdLogout, parsedArgs

	case "whoami", "me":
		return CmdWhoami, parsedArgs

	case "ask":
		parsedArgs.Query = strings.Join(positional(remaining), " ")
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "health":
		return CmdHealth, parsedArgs

	case "history":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdHistory, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: treat it as a question for the assistant.
		parsedArgs.Query = strings.Join(append([]string{cmd}, positional(remaining)...), " ")
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for _, arg := range args {
		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--no-color":
			parsedArgs.NoColor = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsedArgs
}

// positional filters out flag-looking arguments.
func positional(args []string) []string {
	var out []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			out = append(out, arg)
		}
	}
	return out
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// =============================================================================
// VERSION COMMAND
// =============================================================================

// VersionData is the JSON payload for the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		NewJSONResponse("version", data).Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
