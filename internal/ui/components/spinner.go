// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the LifeLink TUI.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lifelink/lifelink-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner is a loading spinner with an optional elapsed-time display.
type Spinner struct {
	spinner spinner.Model
	theme   *styles.Theme

	message   string
	startTime time.Time

	isActive  bool
	showTimer bool
}

// NewSpinner creates a new spinner with ASCII-compatible frames.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return Spinner{
		spinner:   s,
		theme:     theme,
		message:   "Loading",
		showTimer: true,
	}
}

// NewThinkingSpinner creates a spinner for the assistant's "Thinking" state.
func NewThinkingSpinner(theme *styles.Theme) Spinner {
	s := NewSpinner(theme)
	s.SetMessage("Thinking")
	return s
}

// NewSessionSpinner creates a spinner for the session-restore wait.
// It is only shown when restoration outlasts the spinner delay, so a
// warm cache never flashes it.
func NewSessionSpinner(theme *styles.Theme) Spinner {
	s := NewSpinner(theme)
	s.SetMessage("Checking session")
	s.showTimer = false
	return s
}

// SetMessage sets the text displayed next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.message = msg
}

// Start activates the spinner and records the start time.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive reports whether the spinner is running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Update advances the spinner animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner line, or nothing when inactive.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}

	frame := s.theme.Spinner.Render(s.spinner.View())
	text := s.theme.ThinkingText.Render(s.message)

	if s.showTimer {
		elapsed := time.Since(s.startTime).Round(time.Second)
		timer := s.theme.ThinkingTime.Render(fmt.Sprintf("(%s)", elapsed))
		return fmt.Sprintf("%s %s %s", frame, text, timer)
	}
	return fmt.Sprintf("%s %s", frame, text)
}
