// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/jeranaias/simplechat-tui/internal/model"
)

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// renderMessages builds the message pane content for the selected chat.
// System messages are hidden; completed assistant replies render as
// markdown when a renderer is available.
func (m *Model) renderMessages() string {
	chat := m.manager.Selected()
	if chat == nil {
		return m.theme.SidebarEmpty.Render("Create a chat to get started (Ctrl+N).")
	}

	visible := chat.VisibleMessages()
	if len(visible) == 0 {
		return m.theme.SidebarEmpty.Render("No messages yet. Say something.")
	}

	var b strings.Builder
	for i, msg := range visible {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(msg *model.Message) string {
	stamp := m.theme.MessageTime.Render(formatTimestamp(msg.CreatedAt))

	switch msg.Role {
	case model.RoleUser:
		label := m.theme.UserLabel.Render(msg.Role.DisplayName())
		body := m.theme.UserBubble.Render(msg.Content)
		return label + " " + stamp + "\n" + body

	case model.RoleAssistant:
		label := m.theme.AssistantLabel.Render(msg.Role.DisplayName())
		return label + " " + stamp + "\n" + m.theme.AssistantBubble.Render(m.renderAssistantBody(msg))

	default:
		return stamp + " " + msg.Content
	}
}

// formatTimestamp formats a message timestamp for display. Recent
// timestamps keep the output short:
//   - Today: just time (e.g., "15:04")
//   - This week: day and time (e.g., "Mon 15:04")
//   - Older: date and time (e.g., "Jan 2 15:04")
func formatTimestamp(t time.Time) string {
	now := time.Now()

	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}

	if now.Sub(t) < 7*24*time.Hour {
		return t.Format("Mon 15:04")
	}

	return t.Format("Jan 2 15:04")
}

// renderAssistantBody renders a reply as markdown once it is complete.
// While a reply is still streaming in, raw text avoids re-parsing half a
// markdown document on every fragment.
func (m *Model) renderAssistantBody(msg *model.Message) string {
	if !m.cfg.UI.Markdown || m.renderer == nil {
		return msg.Content
	}
	if m.manager.Busy() && m.isNewestMessage(msg) {
		return msg.Content
	}
	rendered, err := m.renderer.Render(msg.Content)
	if err != nil {
		return msg.Content
	}
	return strings.TrimRight(rendered, "\n")
}

func (m *Model) isNewestMessage(msg *model.Message) bool {
	chat := m.manager.Selected()
	if chat == nil {
		return false
	}
	last := chat.LastMessage()
	return last != nil && last.ID == msg.ID
}
