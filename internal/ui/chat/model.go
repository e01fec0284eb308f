// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/simplechat-tui/internal/config"
	"github.com/jeranaias/simplechat-tui/internal/session"
	"github.com/jeranaias/simplechat-tui/internal/ui/components"
	"github.com/jeranaias/simplechat-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS STATE
// =============================================================================

// Focus identifies which pane receives keyboard input.
type Focus int

const (
	FocusInput   Focus = iota // Typing in the message box
	FocusSidebar              // Navigating the chat list
	FocusRename               // Editing the selected chat's title
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the whole application: a sidebar of
// conversations next to a message pane with an input box underneath.
type Model struct {
	// Core state
	manager *session.Manager
	cfg     *config.Config

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Focus
	focus Focus

	// Sidebar cursor; follows the selection until the user moves it
	cursorID string

	// UI components
	viewport viewport.Model
	input    textinput.Model
	rename   textinput.Model
	spinner  spinner.Model

	// Markdown rendering for completed assistant replies
	renderer *glamour.TermRenderer

	// Transient notice bar (copy confirmations etc.)
	notice components.Notice

	// Key bindings
	keyMap KeyMap
}

// New creates the application model around a session manager.
func New(cfg *config.Config, manager *session.Manager) Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 0
	input.Focus()

	rename := textinput.New()
	rename.Placeholder = "Chat title"
	rename.Prompt = ""
	rename.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.HeaderBusy

	m := Model{
		manager:  manager,
		cfg:      cfg,
		theme:    theme,
		focus:    FocusInput,
		cursorID: manager.SelectedID(),
		input:    input,
		rename:   rename,
		spinner:  sp,
		keyMap:   DefaultKeyMap(),
	}
	m.manager.SetStreaming(cfg.API.Stream)
	return m
}

// Init starts the background commands: cursor blink, the session event
// pump, and the notice expiry ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForEvent(m.manager),
		components.NoticeTickCmd(),
	)
}

// sidebarWidth returns the configured sidebar width, clamped to fit.
func (m Model) sidebarWidth() int {
	w := m.cfg.UI.SidebarWidth
	if m.width > 0 && w > m.width/2 {
		w = m.width / 2
	}
	if w < 16 {
		w = 16
	}
	return w
}

// newRenderer builds a markdown renderer wrapped to the message pane.
// Rendering is optional; a nil renderer falls back to plain text.
func newRenderer(wrap int) *glamour.TermRenderer {
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}
