// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the assistant conversation view.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lifelink/lifelink-tui/internal/assistant"
	"github.com/lifelink/lifelink-tui/internal/format"
	"github.com/lifelink/lifelink-tui/internal/history"
	"github.com/lifelink/lifelink-tui/internal/model"
	"github.com/lifelink/lifelink-tui/internal/ui/components"
	"github.com/lifelink/lifelink-tui/internal/ui/styles"
)

// healthInterval is how often the assistant service is probed while the
// chat view is open. The transport rate-limits probes on top of this.
const healthInterval = 30 * time.Second

// sendTimeout bounds one assistant exchange.
const sendTimeout = 35 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// ReplyMsg delivers the assistant's answer to a sent message.
type ReplyMsg struct {
	Reply *model.ChatMessage
	Err   error
}

// HealthMsg delivers an assistant health probe result.
type HealthMsg struct {
	Healthy bool
}

// BackMsg asks the root model to return to the dashboard.
type BackMsg struct{}

// healthTickMsg schedules the next periodic probe.
type healthTickMsg struct{}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view: transcript viewport on top, input below, and
// the shared status bar fed with health and history-expiry state.
type Model struct {
	theme     *styles.Theme
	assistant *assistant.Assistant
	store     *history.Store

	conversation *model.Conversation
	viewport     viewport.Model
	input        textinput.Model
	spinner      components.Spinner
	statusBar    components.StatusBar

	waiting bool
	width   int
	height  int
	ready   bool
}

// New creates the chat view, restoring the saved conversation when one
// is still valid and starting fresh otherwise.
func New(theme *styles.Theme, asst *assistant.Assistant, store *history.Store) Model {
	input := textinput.New()
	input.Placeholder = "Ask about blood donation..."
	input.CharLimit = 2000
	input.Width = 60
	input.Focus()

	conv := model.NewConversation()
	if store.HasValidHistory() {
		if rec := store.Load(); rec != nil {
			conv = model.RestoredConversation(rec.SessionID, rec.Messages)
		}
	}

	bar := components.NewStatusBar(theme)
	if store.HasValidHistory() {
		bar.SetHistoryHours(store.TimeRemaining())
	}
	bar.SetShortcuts([]Shortcut{
		{Key: "enter", Desc: "send"},
		{Key: "esc", Desc: "dashboard"},
		{Key: "ctrl+r", Desc: "reset"},
	})

	return Model{
		theme:        theme,
		assistant:    asst,
		store:        store,
		conversation: conv,
		input:        input,
		spinner:      components.NewThinkingSpinner(theme),
		statusBar:    bar,
	}
}

// Shortcut re-exports the status bar hint type for callers of New.
type Shortcut = components.Shortcut

// SetSize lays out the viewport and input for the given dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Transcript gets everything above the input line and status bar.
	vpHeight := height - 4
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 6
	m.statusBar.SetWidth(width)
	m.refreshTranscript()
}

// Init starts the health probe loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.probeHealth())
}

// Update handles input, replies, and health probes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return BackMsg{} }
		case "enter":
			if !m.waiting {
				return m.send()
			}
			return m, nil
		case "ctrl+r":
			return m.reset()
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case ReplyMsg:
		m.waiting = false
		m.spinner.Stop()
		if msg.Err == nil && msg.Reply != nil {
			m.conversation.Append(*msg.Reply)
			m.store.Save(m.conversation.Messages, m.conversation.SessionID)
			m.statusBar.SetHistoryHours(m.store.TimeRemaining())
		}
		m.refreshTranscript()
		return m, nil

	case HealthMsg:
		m.statusBar.SetHealth(msg.Healthy)
		return m, tea.Tick(healthInterval, func(time.Time) tea.Msg { return healthTickMsg{} })

	case healthTickMsg:
		return m, m.probeHealth()
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	if !m.waiting {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// send dispatches the typed message to the assistant.
func (m Model) send() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	m.conversation.Append(model.NewUserMessage(text))
	m.store.Save(m.conversation.Messages, m.conversation.SessionID)
	m.input.SetValue("")
	m.waiting = true
	m.refreshTranscript()

	asst := m.assistant
	sendCmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		reply, err := asst.SendMessage(ctx, text)
		return ReplyMsg{Reply: reply, Err: err}
	}
	return m, tea.Batch(m.spinner.Start(), sendCmd)
}

// reset clears the conversation locally and on the assistant service.
func (m Model) reset() (Model, tea.Cmd) {
	m.store.Clear()
	m.assistant.ClearSession(m.conversation.SessionID)
	m.conversation.Reset()
	m.statusBar.SetHistoryHours(-1)
	m.refreshTranscript()
	return m, nil
}

// probeHealth checks the assistant service off the UI thread.
func (m Model) probeHealth() tea.Cmd {
	asst := m.assistant
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return HealthMsg{Healthy: asst.CheckHealth(ctx)}
	}
}

// Conversation exposes the transcript for the root model.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// Waiting reports whether a reply is pending.
func (m Model) Waiting() bool {
	return m.waiting
}

// =============================================================================
// VIEW
// =============================================================================

// refreshTranscript rebuilds the viewport content and scrolls to the
// bottom so the latest exchange is visible.
func (m *Model) refreshTranscript() {
	if !m.ready || m.conversation == nil {
		return
	}
	var b strings.Builder
	for _, msg := range m.conversation.Messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg model.ChatMessage) string {
	label := m.theme.ListMeta.Render(msg.Role.DisplayName() + " " + msg.Timestamp.Format("15:04"))
	if msg.IsUser() {
		return label + "\n" + m.theme.UserBubble.Render(msg.Content)
	}
	rendered := format.RenderTerminal(m.assistant.Format(msg.Content))
	return label + "\n" + m.theme.AssistantBubble.Render(strings.TrimRight(rendered, "\n"))
}

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.waiting {
		b.WriteString(m.spinner.View())
	} else {
		b.WriteString(m.theme.InputPrompt.Render("> ") + m.input.View())
		if errMsg := m.assistant.Err(); errMsg != "" {
			b.WriteString("  " + m.theme.ErrorStyle.Render(errMsg))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	return b.String()
}
