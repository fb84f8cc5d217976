// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command handler.
//
// Command: ask
// Short:   Ask the assistant a single question
//
// Examples:
//
//	lifelink ask "Can I donate after a tattoo?"
//	lifelink ask "Where is the nearest blood drive?" --json
package cli

import (
	"context"
	"fmt"

	"github.com/lifelink/lifelink-tui/internal/format"
)

// askData is the JSON payload for the ask command.
type askData struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Related  bool     `json:"blood_donation_related"`
	Keywords []string `json:"keywords,omitempty"`
}

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) error {
	if args.Query == "" {
		return ErrMissingArgument("question", `lifelink ask "Can I donate after a tattoo?"`)
	}

	app, err := NewApp(args)
	if err != nil {
		return err
	}

	if !args.Quiet && !args.JSON {
		fmt.Println(DimStyle.Render("Asking the assistant..."))
	}

	reply, err := app.Assistant.SendMessage(context.Background(), args.Query)
	if err != nil {
		return NewCommandError("ask", app.Assistant.Err(), nil)
	}
	if reply == nil {
		return ErrMissingArgument("question", `lifelink ask "Can I donate after a tattoo?"`)
	}

	analysis := app.Assistant.Analyze(args.Query)

	if args.JSON {
		return NewJSONResponse("ask", askData{
			Question: args.Query,
			Answer:   reply.Content,
			Related:  analysis.IsBloodDonationRelated,
			Keywords: analysis.Keywords,
		}).Print()
	}

	fmt.Println(format.RenderTerminal(app.Assistant.Format(reply.Content)))

	if args.Verbose && analysis.IsBloodDonationRelated {
		fmt.Println(DimStyle.Render(fmt.Sprintf("matched: %v", analysis.Keywords)))
	}
	return nil
}
