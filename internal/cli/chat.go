// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the lifelink CLI.
//
// USABILITY: Markdown rendering and history for better CLI experience
//
// Command: chat
// Short:   Start an interactive assistant chat
//
// Examples:
//
//	lifelink chat               Start interactive chat
//
// Interactive Commands (during chat):
//
//	/help               Show available commands
//	/clear              Clear conversation and saved history
//	/history            Show the saved conversation
//	/health             Check assistant availability
//	/quit               Exit chat
//	Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/lifelink/lifelink-tui/internal/config"
	"github.com/lifelink/lifelink-tui/internal/format"
	"github.com/lifelink/lifelink-tui/internal/model"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "input_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	if err := config.EnsureDir(); err == nil {
		// 0600: the input history can contain personal questions.
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat handles the "chat" command.
func HandleChat(args Args) error {
	app, err := NewApp(args)
	if err != nil {
		return err
	}

	app.Session.Restore(context.Background())

	conv := restoreOrGreet(app)
	input := NewChatCLI()
	defer input.Close()

	if !args.Quiet {
		printChatWelcome(app, conv)
	}

	for {
		line, err := input.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println(DimStyle.Render("bye"))
				return nil
			}
			return err
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if quit := handleChatCommand(app, conv, text); quit {
				return nil
			}
			continue
		}

		conv.Append(model.NewUserMessage(text))

		reply, err := app.Assistant.SendMessage(context.Background(), text)
		if err != nil {
			fmt.Println(ErrorStyle.Render("[ERROR]"), app.Assistant.Err())
			continue
		}

		conv.Append(*reply)
		fmt.Println(format.RenderTerminal(app.Assistant.Format(reply.Content)))

		app.History.Save(conv.Messages, conv.SessionID)
	}
}

// restoreOrGreet loads the saved conversation when it is still valid,
// otherwise starts a fresh one with the greeting.
func restoreOrGreet(app *App) *model.Conversation {
	if app.History.HasValidHistory() {
		if rec := app.History.Load(); rec != nil {
			return model.RestoredConversation(rec.SessionID, rec.Messages)
		}
	}
	return model.NewConversation()
}

func printChatWelcome(app *App, conv *model.Conversation) {
	fmt.Println(TitleStyle.Render("LifeLink Assistant"))

	if conv.MessageCount() > 1 {
		hours := app.History.TimeRemaining()
		fmt.Println(DimStyle.Render(fmt.Sprintf(
			"Restored %d messages (history expires in %dh). /clear to start over.",
			conv.MessageCount(), hours)))
		if topic := conv.Preview(48); topic != "" {
			fmt.Println(DimStyle.Render("Topic: " + topic))
		}
	} else {
		fmt.Println(format.RenderTerminal(app.Assistant.Format(model.GreetingText)))
	}
	fmt.Println(DimStyle.Render("Type /help for commands, /quit to exit."))
}

// handleChatCommand runs a /command. Returns true when the REPL should
// exit.
func handleChatCommand(app *App, conv *model.Conversation, cmd string) bool {
	switch strings.ToLower(strings.Fields(cmd)[0]) {
	case "/quit", "/q", "/exit":
		fmt.Println(DimStyle.Render("bye"))
		return true

	case "/help", "/h":
		fmt.Println("  /help      Show this help")
		fmt.Println("  /clear     Clear conversation and saved history")
		fmt.Println("  /history   Show the saved conversation")
		fmt.Println("  /health    Check assistant availability")
		fmt.Println("  /quit      Exit chat")

	case "/clear", "/c":
		app.History.Clear()
		app.Chatbot.ClearSession(conv.SessionID)
		conv.Reset()
		fmt.Println(SuccessStyle.Render("[OK]"), "Conversation cleared")

	case "/history":
		for _, msg := range conv.Messages {
			fmt.Printf("%s %s\n",
				PromptStyle.Render(msg.Role.DisplayName()+":"),
				msg.Content)
		}

	case "/health":
		if app.Assistant.CheckHealth(context.Background()) {
			fmt.Println(RenderStatus("healthy"), "assistant is reachable")
		} else {
			fmt.Println(RenderStatus("unhealthy"), "assistant is not reachable")
		}

	default:
		fmt.Println(WarningStyle.Render("[WARN]"), "unknown command; /help lists commands")
	}
	return false
}
