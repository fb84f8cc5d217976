// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lifelink/lifelink-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is a key binding hint shown on the right of the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar: assistant health and history
// countdown on the left, shortcut hints on the right.
type StatusBar struct {
	theme *styles.Theme
	width int

	healthKnown bool
	healthy     bool

	// Whole hours until the saved conversation expires. Negative means
	// there is no saved conversation to count down.
	historyHours int

	shortcuts []Shortcut
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{
		theme:        theme,
		historyHours: -1,
	}
}

// SetWidth sets the render width.
func (b *StatusBar) SetWidth(width int) {
	b.width = width
}

// SetHealth records the last assistant health probe result.
func (b *StatusBar) SetHealth(healthy bool) {
	b.healthKnown = true
	b.healthy = healthy
}

// SetHistoryHours sets the countdown shown for the saved conversation.
// Pass a negative value to hide the countdown.
func (b *StatusBar) SetHistoryHours(hours int) {
	b.historyHours = hours
}

// SetShortcuts replaces the shortcut hints.
func (b *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	b.shortcuts = shortcuts
}

// View renders the status bar line.
func (b StatusBar) View() string {
	var left []string

	if b.healthKnown {
		if b.healthy {
			left = append(left, b.theme.ServiceHealthy.Render("assistant "+styles.StatusIndicators.Active))
		} else {
			left = append(left, b.theme.ServiceDown.Render("assistant "+styles.StatusIndicators.Error))
		}
	}

	if b.historyHours >= 0 {
		left = append(left, b.theme.HistoryCountdown.Render(fmt.Sprintf("history expires in %dh", b.historyHours)))
	}

	var right []string
	for _, s := range b.shortcuts {
		right = append(right, b.theme.ShortcutKey.Render(s.Key)+" "+b.theme.ShortcutDesc.Render(s.Desc))
	}

	leftStr := strings.Join(left, "  ")
	rightStr := strings.Join(right, "  ")

	if b.width <= 0 {
		return b.theme.StatusBar.Render(leftStr + "  " + rightStr)
	}

	gap := b.width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
	}
	return b.theme.StatusBar.Render(leftStr + strings.Repeat(" ", gap) + rightStr)
}
