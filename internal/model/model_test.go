// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
package model

import (
	"strings"
	"testing"
)

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestNewChat(t *testing.T) {
	chat := NewChat()

	if chat.ID == "" {
		t.Error("Expected non-empty chat ID")
	}
	if chat.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", chat.Title, DefaultTitle)
	}
	if len(chat.Messages) != 1 {
		t.Fatalf("Expected 1 seed message, got %d", len(chat.Messages))
	}
	if chat.Messages[0].Role != RoleSystem {
		t.Errorf("Seed message role = %q, want %q", chat.Messages[0].Role, RoleSystem)
	}
}

func TestChat_SetTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain title", "Work", "Work"},
		{"trimmed title", "  Work  ", "Work"},
		{"empty title resets to default", "", DefaultTitle},
		{"whitespace-only resets to default", "   \t ", DefaultTitle},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chat := NewChat()
			chat.SetTitle(tc.title)
			if chat.Title != tc.want {
				t.Errorf("Title = %q, want %q", chat.Title, tc.want)
			}
		})
	}
}

func TestChat_RemoveMessage(t *testing.T) {
	chat := NewChat()
	first := NewUserMessage("hello")
	second := NewAssistantMessage("hi there")
	chat.AddMessage(first)
	chat.AddMessage(second)

	if !chat.RemoveMessage(first.ID) {
		t.Fatal("RemoveMessage returned false for existing message")
	}
	if chat.MessageByID(first.ID) != nil {
		t.Error("Removed message still present")
	}
	if chat.MessageByID(second.ID) == nil {
		t.Error("Unrelated message was removed")
	}
	if chat.RemoveMessage("no-such-id") {
		t.Error("RemoveMessage returned true for unknown ID")
	}
}

func TestChat_VisibleMessages(t *testing.T) {
	chat := NewChat()
	chat.AddMessage(NewUserMessage("hi"))
	chat.AddMessage(NewAssistantMessage("hello"))

	visible := chat.VisibleMessages()
	if len(visible) != 2 {
		t.Fatalf("VisibleMessages count = %d, want 2", len(visible))
	}
	for _, msg := range visible {
		if msg.Role == RoleSystem {
			t.Error("System message leaked into visible messages")
		}
	}
	if chat.VisibleCount() != 2 {
		t.Errorf("VisibleCount = %d, want 2", chat.VisibleCount())
	}
}

func TestChat_Transcript(t *testing.T) {
	chat := NewChat()
	chat.AddMessage(NewUserMessage("how are you"))
	chat.AddMessage(NewAssistantMessage("fine"))

	transcript := chat.Transcript()
	if strings.Contains(transcript, DefaultSystemPrompt) {
		t.Error("Transcript should exclude the system seed message")
	}
	if !strings.Contains(transcript, "how are you") {
		t.Error("Transcript missing user content")
	}
	if !strings.Contains(transcript, "fine") {
		t.Error("Transcript missing assistant content")
	}
}

func TestChat_Clone(t *testing.T) {
	chat := NewChat()
	chat.AddMessage(NewUserMessage("original"))

	clone := chat.Clone()
	clone.Messages[1].Content = "mutated"

	if chat.Messages[1].Content != "original" {
		t.Error("Mutating a clone changed the original chat")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_Append(t *testing.T) {
	msg := NewAssistantMessage("Hel")
	msg.Append("lo")
	msg.Append(", world")

	if msg.Content != "Hello, world" {
		t.Errorf("Content = %q, want %q", msg.Content, "Hello, world")
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("héllo wörld, this is a long message")

	preview := msg.Preview(10)
	if len([]rune(preview)) > 10 {
		t.Errorf("Preview length = %d runes, want <= 10", len([]rune(preview)))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview = %q, want ... suffix", preview)
	}

	short := NewUserMessage("hi")
	if short.Preview(10) != "hi" {
		t.Errorf("Short preview = %q, want %q", short.Preview(10), "hi")
	}
}

func TestRole_IsVisible(t *testing.T) {
	if RoleSystem.IsVisible() {
		t.Error("System role should not be visible")
	}
	if !RoleUser.IsVisible() || !RoleAssistant.IsVisible() {
		t.Error("User and assistant roles should be visible")
	}
}
