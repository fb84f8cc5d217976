// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared wiring for CLI command handlers.
package cli

import (
	"time"

	"github.com/lifelink/lifelink-tui/internal/api"
	"github.com/lifelink/lifelink-tui/internal/assistant"
	"github.com/lifelink/lifelink-tui/internal/auth"
	"github.com/lifelink/lifelink-tui/internal/chatbot"
	"github.com/lifelink/lifelink-tui/internal/config"
	"github.com/lifelink/lifelink-tui/internal/credential"
	"github.com/lifelink/lifelink-tui/internal/history"
)

// App bundles the clients and stores the command handlers share. All
// credential access funnels through the one store here.
type App struct {
	Config    *config.Config
	Creds     *credential.Store
	Session   *auth.Session
	Assistant *assistant.Assistant
	Chatbot   *chatbot.Client
	History   *history.Store
	API       *api.Client
}

// NewApp wires an App from the global configuration.
func NewApp(args Args) (*App, error) {
	if args.NoColor {
		DisableColors()
	}

	cfg := config.Global()

	storageDir, err := cfg.StorageDir()
	if err != nil {
		return nil, NewCommandError("startup", "cannot resolve storage directory", err)
	}

	creds := credential.NewStore(storageDir)

	apiTimeout := time.Duration(cfg.API.TimeoutSecs) * time.Second
	authClient := auth.NewClient(cfg.API.BaseURL, apiTimeout, creds)

	chatClient := chatbot.NewClient(&chatbot.ClientConfig{
		BaseURL:           cfg.Chatbot.URL,
		FallbackHealthURL: cfg.Chatbot.FallbackHealthURL,
		Timeout:           time.Duration(cfg.Chatbot.TimeoutSecs) * time.Second,
	}, creds)

	hist := history.NewStore(storageDir,
		history.WithTTL(time.Duration(cfg.History.TTLHours)*time.Hour),
		history.WithMaxMessages(cfg.History.MaxMessages),
	)

	return &App{
		Config:    cfg,
		Creds:     creds,
		Session:   auth.NewSession(authClient, creds),
		Assistant: assistant.New(chatClient),
		Chatbot:   chatClient,
		History:   hist,
		API:       api.NewClient(cfg.API.BaseURL, apiTimeout, creds),
	}, nil
}
