// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the simplechat TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/simplechat-tui/internal/model"
	"github.com/jeranaias/simplechat-tui/internal/ui/styles"
	"github.com/jeranaias/simplechat-tui/internal/util"
)

// =============================================================================
// SIDEBAR
// =============================================================================

// RenderSidebar renders the conversation list. Each row shows the chat
// title and its visible message count; the selected chat is highlighted.
// When the sidebar has focus the highlight follows cursorID instead, so
// the user can move through the list without changing the selection yet.
func RenderSidebar(theme *styles.Theme, chats []*model.Chat, selectedID, cursorID string, focused bool, width, height int) string {
	if width < 4 {
		return ""
	}
	inner := width - 4 // right border plus horizontal padding

	var b strings.Builder
	b.WriteString(theme.SidebarTitle.Render(util.PadWidth("Chats", inner)))
	b.WriteString("\n")

	if len(chats) == 0 {
		b.WriteString(theme.SidebarEmpty.Render(util.TruncateWidth("No chats yet", inner)))
		return theme.Sidebar.Width(width).Height(height).Render(b.String())
	}

	rows := height - 1
	for i, chat := range chats {
		if i >= rows {
			break
		}
		label := fmt.Sprintf("%s (%d)", chat.Title, chat.VisibleCount())
		label = util.PadWidth(label, inner)

		style := theme.SidebarItem
		switch {
		case focused && chat.ID == cursorID:
			style = theme.SidebarSelected
		case !focused && chat.ID == selectedID:
			style = theme.SidebarSelected
		}
		b.WriteString(style.Render(label))
		if i < len(chats)-1 && i < rows-1 {
			b.WriteString("\n")
		}
	}

	return theme.Sidebar.Width(width).Height(height).Render(b.String())
}
