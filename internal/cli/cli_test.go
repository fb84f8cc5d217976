// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/lifelink/lifelink-tui/internal/config"
)

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Command
	}{
		{"no args defaults to TUI", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"login", []string{"login", "a@b.c"}, CmdLogin},
		{"logout", []string{"logout"}, CmdLogout},
		{"whoami", []string{"whoami"}, CmdWhoami},
		{"whoami alias", []string{"me"}, CmdWhoami},
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"health", []string{"health"}, CmdHealth},
		{"history", []string{"history", "clear"}, CmdHistory},
		{"config", []string{"config", "show"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"-h"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := parseArgs(tt.args)
			if cmd != tt.want {
				t.Errorf("parseArgs(%v) = %v, want %v", tt.args, cmd, tt.want)
			}
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := parseArgs([]string{"--json", "-q", "health"})
	if cmd != CmdHealth {
		t.Errorf("command = %v, want CmdHealth", cmd)
	}
	if !args.JSON || !args.Quiet {
		t.Errorf("flags not parsed: %+v", args)
	}
}

func TestParseArgs_LoginEmail(t *testing.T) {
	_, args := parseArgs([]string{"login", "donor@example.org"})
	if args.Email != "donor@example.org" {
		t.Errorf("Email = %q", args.Email)
	}
}

func TestParseArgs_AskQuery(t *testing.T) {
	_, args := parseArgs([]string{"ask", "can", "I", "donate"})
	if args.Query != "can I donate" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgs_UnknownBecomesQuestion(t *testing.T) {
	cmd, args := parseArgs([]string{"what", "is", "plasma"})
	if cmd != CmdAsk {
		t.Errorf("command = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is plasma" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgs_ConfigSet(t *testing.T) {
	_, args := parseArgs([]string{"config", "set", "ui.theme", "light"})
	if args.Subcommand != "set" || args.ConfigKey != "ui.theme" || args.ConfigVal != "light" {
		t.Errorf("config args = %+v", args)
	}
}

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "chatbot.url", "http://127.0.0.1:9000"); err != nil {
		t.Fatal(err)
	}
	if cfg.Chatbot.URL != "http://127.0.0.1:9000" {
		t.Errorf("Chatbot.URL = %q", cfg.Chatbot.URL)
	}

	if err := setConfigValue(cfg, "history.ttl_hours", "48"); err != nil {
		t.Fatal(err)
	}
	if cfg.History.TTLHours != 48 {
		t.Errorf("TTLHours = %d", cfg.History.TTLHours)
	}

	if err := setConfigValue(cfg, "history.ttl_hours", "soon"); err == nil {
		t.Error("non-numeric value accepted")
	}
	if err := setConfigValue(cfg, "nope", "x"); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Reason: "missing"}, ExitUsageError},
		{"auth-ish", NewCommandError("login", "Invalid credentials", nil), ExitAuthError},
		{"network-ish", NewCommandError("ask", "connection refused", nil), ExitNetworkError},
		{"generic", NewCommandError("x", "boom", nil), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
