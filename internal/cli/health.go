// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// health.go - Assistant health check command handler.
//
// Command: health
// Short:   Check assistant service availability
//
// Examples:
//
//	lifelink health             Human-readable health check
//	lifelink health --json      Machine-readable, for monitoring scripts
package cli

import (
	"context"
	"fmt"
)

// healthData is the JSON payload for the health command.
type healthData struct {
	Healthy    bool   `json:"healthy"`
	ChatbotURL string `json:"chatbot_url"`
}

// HandleHealth handles the "health" command. The exit code reflects
// the result so scripts can branch on it.
func HandleHealth(args Args) error {
	app, err := NewApp(args)
	if err != nil {
		return err
	}

	healthy := app.Assistant.CheckHealth(context.Background())

	if args.JSON {
		NewJSONResponse("health", healthData{
			Healthy:    healthy,
			ChatbotURL: app.Config.Chatbot.URL,
		}).Print()
	} else if healthy {
		fmt.Println(RenderStatus("healthy"), "assistant is reachable at", app.Config.Chatbot.URL)
	} else {
		fmt.Println(RenderStatus("unhealthy"), "assistant is not reachable")
	}

	if !healthy {
		return NewCommandError("health", "assistant service unreachable", nil)
	}
	return nil
}
