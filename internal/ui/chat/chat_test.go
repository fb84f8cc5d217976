// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lifelink/lifelink-tui/internal/assistant"
	"github.com/lifelink/lifelink-tui/internal/chatbot"
	"github.com/lifelink/lifelink-tui/internal/history"
	"github.com/lifelink/lifelink-tui/internal/model"
	"github.com/lifelink/lifelink-tui/internal/ui/styles"
)

type fakeTransport struct {
	reply   string
	healthy bool
}

func (f *fakeTransport) SendMessage(ctx context.Context, message string, includeSources bool) (*chatbot.Reply, error) {
	return &chatbot.Reply{Message: f.reply, Timestamp: time.Now()}, nil
}

func (f *fakeTransport) CheckHealth(ctx context.Context) bool { return f.healthy }
func (f *fakeTransport) ClearSession(sessionID string) error  { return nil }

func newTestModel(t *testing.T) (Model, *history.Store) {
	t.Helper()
	store := history.NewStore(t.TempDir())
	asst := assistant.New(&fakeTransport{reply: "Drink water before donating.", healthy: true})
	m := New(styles.NewTheme(), asst, store)
	m.SetSize(100, 30)
	return m, store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewSeedsGreeting(t *testing.T) {
	m, _ := newTestModel(t)
	conv := m.Conversation()
	if conv.MessageCount() != 1 {
		t.Fatalf("new conversation has %d messages, want 1", conv.MessageCount())
	}
	if conv.Messages[0].Role != model.RoleAssistant {
		t.Error("greeting should come from the assistant")
	}
}

func TestNewRestoresValidHistory(t *testing.T) {
	store := history.NewStore(t.TempDir())
	messages := []model.ChatMessage{
		model.NewAssistantMessage(model.GreetingText, time.Now()),
		model.NewUserMessage("Can I donate with a cold?"),
	}
	store.Save(messages, "chat_restore")

	asst := assistant.New(&fakeTransport{})
	m := New(styles.NewTheme(), asst, store)
	if m.Conversation().SessionID != "chat_restore" {
		t.Errorf("session = %q, want restored id", m.Conversation().SessionID)
	}
	if m.Conversation().MessageCount() != 2 {
		t.Errorf("restored %d messages, want 2", m.Conversation().MessageCount())
	}
}

func TestEmptyInputDoesNotSend(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := m.Update(key("enter"))
	if cmd != nil {
		t.Error("enter with empty input should not send")
	}
	if m.Waiting() {
		t.Error("model should not be waiting")
	}
}

func TestSendAppendsAndPersists(t *testing.T) {
	m, store := newTestModel(t)
	m.input.SetValue("How often can I give blood?")

	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("send should return a command")
	}
	if !m.Waiting() {
		t.Error("model should be waiting for the reply")
	}
	if m.Conversation().MessageCount() != 2 {
		t.Errorf("conversation has %d messages after send, want 2", m.Conversation().MessageCount())
	}
	// The user turn is persisted immediately so a crash mid-reply
	// still leaves the question on disk.
	if !store.HasValidHistory() {
		t.Error("history should be saved before the reply arrives")
	}
}

func TestReplyEndsWaiting(t *testing.T) {
	m, _ := newTestModel(t)
	m.input.SetValue("hello")
	m, _ = m.Update(key("enter"))

	reply := model.NewAssistantMessage("Hi there.", time.Now())
	m, _ = m.Update(ReplyMsg{Reply: &reply})

	if m.Waiting() {
		t.Error("waiting should clear after the reply")
	}
	msgs := m.Conversation().Messages
	if len(msgs) == 0 || msgs[len(msgs)-1].Content != "Hi there." {
		t.Error("reply not appended to conversation")
	}
}

func TestResetClearsEverything(t *testing.T) {
	m, store := newTestModel(t)
	m.input.SetValue("first question")
	m, _ = m.Update(key("enter"))
	reply := model.NewAssistantMessage("answer", time.Now())
	m, _ = m.Update(ReplyMsg{Reply: &reply})

	m, _ = m.Update(key("ctrl+r"))
	if m.Conversation().MessageCount() != 1 {
		t.Errorf("conversation has %d messages after reset, want greeting only", m.Conversation().MessageCount())
	}
	if store.HasValidHistory() {
		t.Error("stored history should be cleared on reset")
	}
}

func TestEscReturnsToDashboard(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(key("esc"))
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Errorf("cmd() = %T, want BackMsg", cmd())
	}
}

func TestViewShowsTranscript(t *testing.T) {
	m, _ := newTestModel(t)
	got := m.View()
	if !strings.Contains(got, "Assistant") {
		t.Errorf("view missing assistant label: %q", got)
	}
}
