// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login implements the sign-in form view.
package login

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lifelink/lifelink-tui/internal/auth"
	"github.com/lifelink/lifelink-tui/internal/ui/styles"
)

// loginTimeout bounds a single sign-in attempt.
const loginTimeout = 30 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// ResultMsg reports the outcome of a sign-in attempt.
type ResultMsg struct {
	Err error
}

// =============================================================================
// MODEL
// =============================================================================

const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// Model is the sign-in form: email and password inputs plus an inline
// error line fed by the session store.
type Model struct {
	theme   *styles.Theme
	session *auth.Session

	inputs  []textinput.Model
	focused int

	width      int
	height     int
	submitting bool
}

// New creates the sign-in form with the email field focused.
func New(theme *styles.Theme, session *auth.Session) Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 128
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 40
	// SECURITY: never echo the password.
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return Model{
		theme:   theme,
		session: session,
		inputs:  []textinput.Model{email, password},
	}
}

// SetSize updates the render dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reset clears the form for a fresh sign-in.
func (m *Model) Reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focused = fieldEmail
	m.inputs[fieldEmail].Focus()
	m.submitting = false
}

// Init returns the initial command for the form.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles form input and submission.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.cycleFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.cycleFocus(-1)
			return m, nil
		case "enter":
			if m.focused == fieldEmail {
				m.cycleFocus(1)
				return m, nil
			}
			return m.submit()
		}

	case ResultMsg:
		m.submitting = false
		if msg.Err != nil {
			// The session store keeps the user-facing message; clear
			// the password so a retry starts clean.
			m.inputs[fieldPassword].SetValue("")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *Model) cycleFocus(dir int) {
	m.inputs[m.focused].Blur()
	m.focused = (m.focused + dir + fieldCount) % fieldCount
	m.inputs[m.focused].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		return m, nil
	}

	m.submitting = true
	session := m.session
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()
		err := session.Login(ctx, email, password)
		return ResultMsg{Err: err}
	}
}

// Submitting reports whether a sign-in attempt is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// View renders the sign-in form centered in the available space.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderTitle.Render("Sign in to LifeLink"))
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel("Email", fieldEmail))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldEmail].View())
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel("Password", fieldPassword))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n")

	if m.submitting {
		b.WriteString("\n" + m.theme.ThinkingText.Render("Signing in..."))
	} else if errMsg := m.session.Err(); errMsg != "" {
		b.WriteString("\n" + m.theme.FormError.Render(errMsg))
	}

	b.WriteString("\n\n" + m.theme.FormHint.Render("enter to submit, tab to switch fields, ctrl+c to quit"))

	box := m.theme.FormBox.Render(b.String())
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) fieldLabel(label string, field int) string {
	if m.focused == field {
		return m.theme.FormFieldFocus.Render("> " + label)
	}
	return m.theme.FormLabel.Render("  " + label)
}
