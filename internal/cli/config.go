// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration command handler.
//
// Command: config
// Short:   Show and change configuration
//
// Examples:
//
//	lifelink config show
//	lifelink config path
//	lifelink config set chatbot.url http://127.0.0.1:9000
//	lifelink config set history.ttl_hours 48
package cli

import (
	"fmt"
	"strconv"

	"github.com/lifelink/lifelink-tui/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "path":
		return handleConfigPath(args)
	case "set":
		return handleConfigSet(args)
	default:
		return ErrMissingArgument("subcommand", "lifelink config [show|set|path]")
	}
}

func handleConfigShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		return NewJSONResponse("config", cfg).Print()
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Printf("%s %s\n", LabelStyle.Render("api.base_url"), ValueStyle.Render(cfg.API.BaseURL))
	fmt.Printf("%s %d\n", LabelStyle.Render("api.timeout_secs"), cfg.API.TimeoutSecs)
	fmt.Printf("%s %s\n", LabelStyle.Render("chatbot.url"), ValueStyle.Render(cfg.Chatbot.URL))
	fmt.Printf("%s %s\n", LabelStyle.Render("chatbot.fallback_health_url"), ValueStyle.Render(cfg.Chatbot.FallbackHealthURL))
	fmt.Printf("%s %d\n", LabelStyle.Render("chatbot.timeout_secs"), cfg.Chatbot.TimeoutSecs)
	fmt.Printf("%s %d\n", LabelStyle.Render("history.ttl_hours"), cfg.History.TTLHours)
	fmt.Printf("%s %d\n", LabelStyle.Render("history.max_messages"), cfg.History.MaxMessages)
	fmt.Printf("%s %s\n", LabelStyle.Render("ui.theme"), ValueStyle.Render(cfg.UI.Theme))
	return nil
}

func handleConfigPath(args Args) error {
	path, err := config.PathTOML()
	if err != nil {
		return NewCommandError("config", "cannot resolve config path", err)
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]string{"path": path}).Print()
	}
	fmt.Println(path)
	return nil
}

func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "lifelink config set chatbot.url http://127.0.0.1:9000")
	}

	cfg := config.Global()
	if err := setConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return NewCommandError("config", "invalid configuration", err)
	}
	if err := config.Save(cfg); err != nil {
		return NewCommandError("config", "cannot save configuration", err)
	}
	config.SetGlobal(cfg)

	if args.JSON {
		return NewJSONResponse("config", map[string]string{args.ConfigKey: args.ConfigVal}).Print()
	}
	if !args.Quiet {
		fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, args.ConfigVal)
	}
	return nil
}

// setConfigValue maps a dotted key onto a config field.
func setConfigValue(cfg *config.Config, key, val string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, &UsageError{Reason: fmt.Sprintf("%s needs a number, got %q", key, val)}
		}
		return n, nil
	}

	switch key {
	case "api.base_url":
		cfg.API.BaseURL = val
	case "api.timeout_secs":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.API.TimeoutSecs = n
	case "chatbot.url":
		cfg.Chatbot.URL = val
	case "chatbot.fallback_health_url":
		cfg.Chatbot.FallbackHealthURL = val
	case "chatbot.timeout_secs":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.Chatbot.TimeoutSecs = n
	case "history.ttl_hours":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.History.TTLHours = n
	case "history.max_messages":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.History.MaxMessages = n
	case "storage.dir":
		cfg.Storage.Dir = val
	case "ui.theme":
		cfg.UI.Theme = val
	default:
		return &UsageError{
			Reason:  "unknown config key: " + key,
			Example: "lifelink config show lists all keys",
		}
	}
	return nil
}
