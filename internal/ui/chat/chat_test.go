// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/simplechat-tui/internal/config"
	"github.com/jeranaias/simplechat-tui/internal/model"
	"github.com/jeranaias/simplechat-tui/internal/openai"
	"github.com/jeranaias/simplechat-tui/internal/session"
)

type stubClient struct {
	reply string
}

func (c *stubClient) Chat(ctx context.Context, apiKey string, messages []openai.Message) (string, error) {
	return c.reply, nil
}

func (c *stubClient) ChatStream(ctx context.Context, apiKey string, messages []openai.Message, callback openai.StreamCallback) error {
	callback(openai.StreamChunk{Content: c.reply})
	callback(openai.StreamChunk{Done: true})
	return nil
}

func newTestModel(t *testing.T, client session.Client) Model {
	t.Helper()
	cfg := config.Default()
	cfg.API.Stream = false
	manager := session.New(client, nil)
	t.Cleanup(manager.Close)

	m := New(cfg, manager)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func pressKey(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// drainSession feeds session events through Update until the send settles.
func drainSession(t *testing.T, m Model) Model {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-m.manager.Events():
			updated, _ := m.Update(sessionEventMsg{event: event})
			m = updated.(Model)
			if _, done := event.(session.DoneEvent); done {
				return m
			}
		case <-deadline:
			t.Fatal("timed out waiting for DoneEvent")
		}
	}
}

func TestNewChatKey(t *testing.T) {
	m := newTestModel(t, &stubClient{})

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	// seeded default chat plus the new one
	if len(m.manager.Chats()) != 2 {
		t.Fatalf("manager has %d chats, want 2", len(m.manager.Chats()))
	}
	if m.manager.SelectedID() != m.manager.Chats()[0].ID {
		t.Error("new chat should be selected")
	}
	if m.focus != FocusInput {
		t.Error("focus should return to the input after creating a chat")
	}
}

func TestSendFlow(t *testing.T) {
	m := newTestModel(t, &stubClient{reply: "fine"})
	m.manager.SetAPIKey("sk-test")
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	m = typeText(t, m, "how are you")
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.input.Value() != "" {
		t.Errorf("input should reset after an accepted send, got %q", m.input.Value())
	}
	if !m.manager.Busy() {
		t.Fatal("manager should be busy after send")
	}

	m = drainSession(t, m)

	chat := m.manager.Selected()
	visible := chat.VisibleMessages()
	if len(visible) != 2 {
		t.Fatalf("chat has %d visible messages, want 2", len(visible))
	}
	if visible[1].Content != "fine" {
		t.Errorf("reply = %q, want %q", visible[1].Content, "fine")
	}
}

func TestSendWithoutKeyKeepsDraft(t *testing.T) {
	m := newTestModel(t, &stubClient{})
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	m = typeText(t, m, "hello")
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.input.Value() != "hello" {
		t.Errorf("rejected send should keep the draft, got %q", m.input.Value())
	}
	if m.manager.LastError() == "" {
		t.Error("missing key should surface an error")
	}
}

func TestSidebarNavigation(t *testing.T) {
	m := newTestModel(t, &stubClient{})
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	first := m.manager.SelectedID()
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	second := m.manager.SelectedID()

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != FocusSidebar {
		t.Fatal("tab should focus the sidebar")
	}
	if m.cursorID != second {
		t.Errorf("cursor = %q, want selection %q", m.cursorID, second)
	}

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursorID != first {
		t.Errorf("cursor after down = %q, want %q", m.cursorID, first)
	}

	// Moving the cursor does not change the selection until enter
	if m.manager.SelectedID() != second {
		t.Error("selection should not change while navigating")
	}

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.manager.SelectedID() != first {
		t.Errorf("selection = %q after enter, want %q", m.manager.SelectedID(), first)
	}
	if m.focus != FocusInput {
		t.Error("enter should return focus to the input")
	}
}

func TestRenameFlow(t *testing.T) {
	m := newTestModel(t, &stubClient{})
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.focus != FocusRename {
		t.Fatal("ctrl+r should enter rename mode")
	}
	if m.rename.Value() != model.DefaultTitle {
		t.Errorf("rename editor should start with the current title, got %q", m.rename.Value())
	}

	m.rename.SetValue("Work")
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.manager.Selected().Title != "Work" {
		t.Errorf("title = %q, want Work", m.manager.Selected().Title)
	}
	if m.focus != FocusInput {
		t.Error("commit should return focus to the input")
	}
}

func TestRenameCancelKeepsTitle(t *testing.T) {
	m := newTestModel(t, &stubClient{})
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m.rename.SetValue("Discarded")
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if got := m.manager.Selected().Title; got != model.DefaultTitle {
		t.Errorf("title = %q after cancel, want %q", got, model.DefaultTitle)
	}
}

func TestDeleteChatKey(t *testing.T) {
	m := newTestModel(t, &stubClient{})
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})
	if len(m.manager.Chats()) != 2 {
		t.Fatalf("manager has %d chats after delete, want 2", len(m.manager.Chats()))
	}
	if m.manager.SelectedID() != m.manager.Chats()[0].ID {
		t.Error("selection should move to the remaining chat")
	}
}

func TestViewRendersWithoutPanic(t *testing.T) {
	m := newTestModel(t, &stubClient{})
	if out := m.View(); out == "" {
		t.Error("View() should not be empty after resize")
	}

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if out := m.View(); !strings.Contains(out, "New Chat") {
		t.Error("View() should show the chat title")
	}
}

func TestExportTranscriptWritesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	m := newTestModel(t, &stubClient{})
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	chat := m.manager.Selected()
	chat.AddMessage(model.NewUserMessage("hi"))
	chat.AddMessage(model.NewAssistantMessage("hello"))

	m.exportTranscript()

	entries, err := os.ReadDir(filepath.Join(home, ".simplechat", "exports"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("exports dir has %d entries, want 1", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(home, ".simplechat", "exports", entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "hi\n\nhello\n\n"
	if string(data) != want {
		t.Errorf("transcript = %q, want %q", data, want)
	}
}

func TestMessageShowsTimestamp(t *testing.T) {
	m := newTestModel(t, &stubClient{})
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	chat := m.manager.Selected()

	msg := model.NewUserMessage("hi")
	msg.CreatedAt = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.Local)
	chat.AddMessage(msg)

	rendered := m.renderMessage(msg)
	if want := formatTimestamp(msg.CreatedAt); !strings.Contains(rendered, want) {
		t.Errorf("rendered message missing timestamp %q:\n%s", want, rendered)
	}
}

func TestFormatTimestamp(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"today", now, now.Format("15:04")},
		{"this week", now.Add(-48 * time.Hour), now.Add(-48 * time.Hour).Format("Mon 15:04")},
		{"older", now.Add(-30 * 24 * time.Hour), now.Add(-30 * 24 * time.Hour).Format("Jan 2 15:04")},
	}
	for _, tt := range tests {
		if got := formatTimestamp(tt.t); got != tt.want {
			t.Errorf("formatTimestamp(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"New Chat", "new-chat"},
		{"Weekly sync / notes", "weekly-sync--notes"},
		{"***", "chat"},
		{"  spaced  ", "spaced"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
