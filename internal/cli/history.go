// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Saved chat history command handler.
//
// Command: history
// Short:   Manage the locally saved conversation
//
// Examples:
//
//	lifelink history                     Show history status
//	lifelink history show                Print the saved conversation
//	lifelink history clear               Forget the saved conversation
//	lifelink history export md chat.md   Export the saved conversation
package cli

import (
	"fmt"
	"os"

	"github.com/lifelink/lifelink-tui/internal/export"
	"github.com/lifelink/lifelink-tui/internal/model"
)

// historyData is the JSON payload for the history command.
type historyData struct {
	Valid          bool                `json:"valid"`
	Messages       []model.ChatMessage `json:"messages,omitempty"`
	SessionID      string              `json:"session_id,omitempty"`
	HoursRemaining int                 `json:"hours_remaining"`
}

// HandleHistory handles the "history" command.
func HandleHistory(args Args) error {
	app, err := NewApp(args)
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "clear":
		app.History.Clear()
		if args.JSON {
			return NewJSONResponse("history", map[string]bool{"cleared": true}).Print()
		}
		if !args.Quiet {
			fmt.Println(SuccessStyle.Render("[OK]"), "Chat history cleared")
		}
		return nil

	case "", "show", "status":
		rec := app.History.Load()

		if args.JSON {
			data := historyData{HoursRemaining: app.History.TimeRemaining()}
			if rec != nil {
				data.Valid = len(rec.Messages) > 1
				data.Messages = rec.Messages
				data.SessionID = rec.SessionID
			}
			return NewJSONResponse("history", data).Print()
		}

		if rec == nil {
			fmt.Println(DimStyle.Render("No saved conversation."))
			return nil
		}

		fmt.Println(TitleStyle.Render("Saved Conversation"))
		conv := model.RestoredConversation(rec.SessionID, rec.Messages)
		if topic := conv.Preview(48); topic != "" {
			fmt.Println(DimStyle.Render("Topic: " + topic))
		}
		fmt.Println(RenderSeparator(40))
		for _, msg := range rec.Messages {
			fmt.Printf("%s %s\n",
				PromptStyle.Render(msg.Role.DisplayName()+":"), msg.Content)
		}
		fmt.Println(DimStyle.Render(fmt.Sprintf(
			"%d messages, expires in %dh", len(rec.Messages), app.History.TimeRemaining())))
		return nil

	case "export":
		return handleHistoryExport(app, args)

	default:
		return ErrMissingArgument("subcommand", "lifelink history [show|clear|export]")
	}
}

// handleHistoryExport writes the saved conversation to a file, or
// stdout when no path is given.
func handleHistoryExport(app *App, args Args) error {
	rec := app.History.Load()
	if rec == nil {
		return NewCommandError("history", "no saved conversation to export", nil)
	}

	var formatArg, pathArg string
	if len(args.Raw) > 1 {
		formatArg = args.Raw[1]
	}
	if len(args.Raw) > 2 {
		pathArg = args.Raw[2]
	}

	format, err := export.ParseFormat(formatArg)
	if err != nil {
		return &UsageError{Reason: err.Error(), Example: "lifelink history export [md|json|html] [file]"}
	}

	data, err := export.For(format, export.DefaultOptions()).Export(rec)
	if err != nil {
		return NewCommandError("history", "export failed", err)
	}

	if pathArg == "" {
		fmt.Print(string(data))
		return nil
	}

	if err := os.WriteFile(pathArg, data, 0644); err != nil {
		return NewCommandError("history", "could not write "+pathArg, err)
	}
	if args.JSON {
		return NewJSONResponse("history", map[string]string{
			"exported": pathArg,
			"format":   string(format),
		}).Print()
	}
	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("[OK]"), "Exported to", pathArg)
	}
	return nil
}
