// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/simplechat-tui/internal/session"
	"github.com/jeranaias/simplechat-tui/internal/ui/components"
)

// Fixed rows around the viewport: header, input box, status bar, notice.
const chromeHeight = 6

// Update handles all incoming messages for the application.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case sessionEventMsg:
		return m.handleSessionEvent(msg)

	case spinner.TickMsg:
		if !m.manager.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.NoticeTickMsg:
		if m.notice.IsExpired() {
			m.notice = components.Notice{}
		}
		return m, components.NoticeTickCmd()

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		m.manager.SetStreaming(msg.Config.API.Stream)
		if msg.Config.API.Key != "" {
			m.manager.SetAPIKey(msg.Config.API.Key)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	paneWidth := m.width - m.sidebarWidth()
	paneHeight := m.height - chromeHeight
	if paneHeight < 1 {
		paneHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.viewport.Width = paneWidth
		m.viewport.Height = paneHeight
	}

	m.input.Width = paneWidth - 6
	m.renderer = newRenderer(paneWidth - 4)
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// =============================================================================
// SESSION EVENTS
// =============================================================================

func (m Model) handleSessionEvent(msg sessionEventMsg) (tea.Model, tea.Cmd) {
	m.manager.Apply(msg.event)

	cmds := []tea.Cmd{waitForEvent(m.manager)}
	switch msg.event.(type) {
	case session.ReplyEvent, session.FragmentEvent, session.DoneEvent:
		m.refreshViewport()
		m.viewport.GotoBottom()
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works from any pane
	if key.Matches(msg, m.keyMap.Quit) {
		m.manager.Close()
		return m, tea.Quit
	}

	switch m.focus {
	case FocusRename:
		return m.handleRenameKey(msg)
	case FocusSidebar:
		return m.handleSidebarKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		// Blank titles fall back to the default inside the manager
		m.manager.RenameChat(m.manager.SelectedID(), m.rename.Value())
		m.focus = FocusInput
		m.rename.Blur()
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keyMap.Cancel):
		m.focus = FocusInput
		m.rename.Blur()
		m.input.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if m.cursorID != "" {
			m.manager.SelectChat(m.cursorID)
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		return m.focusInput()

	case key.Matches(msg, m.keyMap.NewChat):
		return m.newChat()

	case key.Matches(msg, m.keyMap.DeleteChat):
		if m.cursorID != "" {
			m.manager.DeleteChat(m.cursorID)
			m.cursorID = m.manager.SelectedID()
			m.refreshViewport()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.RenameChat):
		if m.cursorID != "" {
			m.manager.SelectChat(m.cursorID)
		}
		return m.startRename()

	case key.Matches(msg, m.keyMap.Cancel), key.Matches(msg, m.keyMap.SwitchFocus):
		return m.focusInput()
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		m.manager.Send(m.input.Value())
		if m.manager.Busy() {
			// Accepted; validation failures leave the draft for editing
			m.input.Reset()
			m.refreshViewport()
			m.viewport.GotoBottom()
			return m, m.spinner.Tick
		}
		return m, nil

	case key.Matches(msg, m.keyMap.SwitchFocus):
		m.focus = FocusSidebar
		m.cursorID = m.manager.SelectedID()
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		return m.newChat()

	case key.Matches(msg, m.keyMap.DeleteChat):
		m.manager.DeleteChat(m.manager.SelectedID())
		m.cursorID = m.manager.SelectedID()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.RenameChat):
		return m.startRename()

	case key.Matches(msg, m.keyMap.DeleteMessage):
		m.deleteLastMessage()
		return m, nil

	case key.Matches(msg, m.keyMap.CopyChat):
		m.copyTranscript()
		return m, nil

	case key.Matches(msg, m.keyMap.ExportChat):
		m.exportTranscript()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.manager.SetDraft(m.input.Value())
	return m, cmd
}

// =============================================================================
// KEY HELPERS
// =============================================================================

func (m *Model) newChat() (tea.Model, tea.Cmd) {
	m.manager.NewChat()
	m.cursorID = m.manager.SelectedID()
	m.refreshViewport()
	return m.focusInput()
}

func (m *Model) startRename() (tea.Model, tea.Cmd) {
	chat := m.manager.Selected()
	if chat == nil {
		return *m, nil
	}
	m.rename.SetValue(chat.Title)
	m.rename.CursorEnd()
	m.focus = FocusRename
	m.input.Blur()
	m.rename.Focus()
	return *m, textinput.Blink
}

func (m *Model) focusInput() (tea.Model, tea.Cmd) {
	m.focus = FocusInput
	m.rename.Blur()
	m.input.Focus()
	return *m, textinput.Blink
}

// deleteLastMessage removes the newest visible message from the selected
// chat.
func (m *Model) deleteLastMessage() {
	chat := m.manager.Selected()
	if chat == nil {
		return
	}
	visible := chat.VisibleMessages()
	if len(visible) == 0 {
		return
	}
	m.manager.DeleteMessage(chat.ID, visible[len(visible)-1].ID)
	m.refreshViewport()
}

// moveCursor moves the sidebar cursor by delta, clamped to the list.
func (m *Model) moveCursor(delta int) {
	chats := m.manager.Chats()
	if len(chats) == 0 {
		m.cursorID = ""
		return
	}
	idx := 0
	for i, chat := range chats {
		if chat.ID == m.cursorID {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(chats) {
		idx = len(chats) - 1
	}
	m.cursorID = chats[idx].ID
}

// refreshViewport rebuilds the message pane from the selected chat.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}
