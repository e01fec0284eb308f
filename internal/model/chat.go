// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
package model

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultTitle is the label assigned to new chats and restored when a title
// edit commits an empty string.
const DefaultTitle = "New Chat"

// DefaultSystemPrompt seeds every chat. The seeded message is sent to the
// API with the rest of the history but never rendered or exported.
const DefaultSystemPrompt = "You are a helpful assistant."

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat holds a titled, ordered list of messages. Messages stay in insertion
// order; there is no reordering and no deduplication.
type Chat struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Messages []*Message `json:"messages"`
}

// NewChat creates a chat with the default title and a hidden system seed
// message.
func NewChat() *Chat {
	return &Chat{
		ID:       uuid.New().String(),
		Title:    DefaultTitle,
		Messages: []*Message{NewSystemMessage(DefaultSystemPrompt)},
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the chat.
func (c *Chat) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// RemoveMessage removes a message by ID. Returns true if a message was
// removed.
func (c *Chat) RemoveMessage(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			return true
		}
	}
	return false
}

// MessageByID returns a message by its ID, or nil.
func (c *Chat) MessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// VisibleMessages returns the messages rendered in the detail pane, in
// insertion order. The system seed is excluded.
func (c *Chat) VisibleMessages() []*Message {
	visible := make([]*Message, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if msg.Role.IsVisible() {
			visible = append(visible, msg)
		}
	}
	return visible
}

// VisibleCount returns the number of rendered messages, used by the sidebar.
func (c *Chat) VisibleCount() int {
	n := 0
	for _, msg := range c.Messages {
		if msg.Role.IsVisible() {
			n++
		}
	}
	return n
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// SetTitle sets the chat title. A title that is empty after trimming is
// normalized back to the default label, never stored empty.
func (c *Chat) SetTitle(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	c.Title = title
}

// =============================================================================
// EXPORT
// =============================================================================

// Transcript renders the chat for the clipboard. User lines are emitted as
// plain lines, assistant replies as blank-line separated blocks, and system
// messages are excluded, matching the rendered view.
func (c *Chat) Transcript() string {
	var sb strings.Builder
	for _, msg := range c.Messages {
		switch msg.Role {
		case RoleUser:
			sb.WriteString(msg.Content)
			sb.WriteString("\n")
		case RoleAssistant:
			sb.WriteString("\n")
			sb.WriteString(msg.Content)
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// Clone creates a deep copy of the chat.
func (c *Chat) Clone() *Chat {
	clone := &Chat{
		ID:       c.ID,
		Title:    c.Title,
		Messages: make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}
