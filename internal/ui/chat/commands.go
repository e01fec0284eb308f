// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/simplechat-tui/internal/config"
	"github.com/jeranaias/simplechat-tui/internal/session"
)

// ConfigReloadedMsg carries a freshly reloaded configuration. The watcher
// in main sends it when the config file changes on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// SESSION EVENT PUMP
// =============================================================================

// sessionEventMsg wraps one session event for the Bubble Tea update loop.
type sessionEventMsg struct {
	event session.Event
}

// waitForEvent blocks on the manager's event channel and delivers the next
// event as a message. Update re-issues it after every delivery so the pump
// never stalls.
func waitForEvent(manager *session.Manager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-manager.Events()
		if !ok {
			return nil
		}
		return sessionEventMsg{event: event}
	}
}
