// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/simplechat-tui/internal/ui/components"
	"github.com/jeranaias/simplechat-tui/internal/util"
)

// View renders the full application layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	sidebar := components.RenderSidebar(
		m.theme,
		m.manager.Chats(),
		m.manager.SelectedID(),
		m.cursorID,
		m.focus == FocusSidebar,
		m.sidebarWidth(),
		m.height-1,
	)

	paneWidth := m.width - m.sidebarWidth()
	pane := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(paneWidth),
		m.viewport.View(),
		m.renderNoticeBar(paneWidth),
		m.renderInput(paneWidth),
		m.renderStatusBar(paneWidth),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, pane)
}

// =============================================================================
// PANE SECTIONS
// =============================================================================

func (m Model) renderHeader(width int) string {
	title := "simplechat"
	if chat := m.manager.Selected(); chat != nil {
		title = fmt.Sprintf("%s (%d)", chat.Title, chat.VisibleCount())
	}
	left := m.theme.HeaderTitle.Render(util.TruncateWidth(title, width-12))

	right := ""
	if m.manager.Busy() {
		right = m.spinner.View() + m.theme.HeaderBusy.Render(" thinking")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderNoticeBar shows the manager's current error, or a local transient
// notice when there is none. The manager clears its own errors after a
// few seconds; local notices expire on the notice tick.
func (m Model) renderNoticeBar(width int) string {
	if errMsg := m.manager.LastError(); errMsg != "" {
		return components.RenderNotice(m.theme, components.Notice{
			Message: errMsg,
			Kind:    components.NoticeError,
		}, width)
	}
	if !m.notice.IsZero() {
		return components.RenderNotice(m.theme, m.notice, width)
	}
	return m.theme.StatusBar.Width(width).Render("")
}

func (m Model) renderInput(width int) string {
	if m.focus == FocusRename {
		box := m.theme.InputContainerFocused.Width(width - 2)
		return box.Render("Rename: " + m.rename.View())
	}

	box := m.theme.InputContainer
	if m.focus == FocusInput {
		box = m.theme.InputContainerFocused
	}
	return box.Width(width - 2).Render(m.input.View())
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "send"},
		{"Tab", "chats"},
		{"C-n", "new"},
		{"C-r", "rename"},
		{"C-w", "delete"},
		{"C-y", "copy"},
		{"C-q", "quit"},
	}

	parts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts = append(parts, m.theme.ShortcutKey.Render(s.key)+" "+m.theme.ShortcutDesc.Render(s.desc))
	}
	// MaxWidth truncates ANSI-aware, so styled shortcuts clip cleanly
	return m.theme.StatusBar.Width(width).MaxWidth(width).Render(strings.Join(parts, "  "))
}
