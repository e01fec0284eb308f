// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the simplechat TUI.
//
// This file implements non-blocking transient notices shown in a bar above
// the input. Unlike a modal dialog the bar auto-dismisses, so the user
// keeps typing while an error or confirmation is displayed.
package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/simplechat-tui/internal/ui/styles"
	"github.com/jeranaias/simplechat-tui/internal/util"
)

// =============================================================================
// NOTICE TYPES
// =============================================================================

// NoticeKind represents the type of transient notice.
type NoticeKind int

const (
	// NoticeStatus is an informational notice
	NoticeStatus NoticeKind = iota
	// NoticeError is an error notice
	NoticeError
	// NoticeSuccess is a confirmation notice
	NoticeSuccess
)

// DefaultNoticeDuration is the auto-dismiss duration for notices.
const DefaultNoticeDuration = 4 * time.Second

// Notice is a transient message with an expiry.
type Notice struct {
	Message   string
	Kind      NoticeKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewErrorNotice creates an error notice with the default duration.
func NewErrorNotice(message string) Notice {
	return Notice{
		Message:   message,
		Kind:      NoticeError,
		CreatedAt: time.Now(),
		Duration:  DefaultNoticeDuration,
	}
}

// NewSuccessNotice creates a confirmation notice with the default duration.
func NewSuccessNotice(message string) Notice {
	return Notice{
		Message:   message,
		Kind:      NoticeSuccess,
		CreatedAt: time.Now(),
		Duration:  DefaultNoticeDuration,
	}
}

// IsZero reports whether the notice is unset.
func (n Notice) IsZero() bool {
	return n.Message == ""
}

// IsExpired reports whether the notice should be dismissed.
func (n Notice) IsExpired() bool {
	return !n.IsZero() && time.Since(n.CreatedAt) >= n.Duration
}

// =============================================================================
// NOTICE MESSAGES
// =============================================================================

// NoticeTickMsg is sent periodically to expire notices.
type NoticeTickMsg struct {
	Time time.Time
}

// NoticeTickCmd returns a command that ticks notice expiry every 250ms.
func NoticeTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return NoticeTickMsg{Time: t}
	})
}

// =============================================================================
// NOTICE RENDERING
// =============================================================================

// RenderNotice renders a notice bar at the given width. A zero notice
// renders as an empty string.
func RenderNotice(theme *styles.Theme, notice Notice, width int) string {
	if notice.IsZero() {
		return ""
	}

	text := util.TruncateWidth(notice.Message, width-2)
	switch notice.Kind {
	case NoticeError:
		return theme.ErrorBar.Width(width).Render(text)
	case NoticeSuccess:
		return theme.StatusNotice.Width(width).Render(text)
	default:
		return theme.StatusBar.Width(width).Render(text)
	}
}
