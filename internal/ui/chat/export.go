// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/jeranaias/simplechat-tui/internal/model"
	"github.com/jeranaias/simplechat-tui/internal/ui/components"
	"github.com/jeranaias/simplechat-tui/internal/util"
)

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// copyTranscript copies the selected chat's transcript to the clipboard.
func (m *Model) copyTranscript() {
	chat := m.manager.Selected()
	if chat == nil {
		m.notice = components.NewErrorNotice("No chat selected.")
		return
	}
	if err := clipboard.WriteAll(chat.Transcript()); err != nil {
		m.notice = components.NewErrorNotice("Could not access the clipboard.")
		return
	}
	m.notice = components.NewSuccessNotice("Transcript copied to clipboard.")
}

// exportTranscript writes the selected chat's transcript to a file under
// ~/.simplechat/exports/.
func (m *Model) exportTranscript() {
	chat := m.manager.Selected()
	if chat == nil {
		m.notice = components.NewErrorNotice("No chat selected.")
		return
	}

	home, err := os.UserHomeDir()
	if err != nil {
		m.notice = components.NewErrorNotice("Could not find the home directory.")
		return
	}
	dir := filepath.Join(home, ".simplechat", "exports")
	path := filepath.Join(dir, exportFilename(chat, time.Now()))

	if err := util.AtomicWriteFile(path, []byte(chat.Transcript()), 0600); err != nil {
		m.notice = components.NewErrorNotice("Could not write the transcript file.")
		return
	}
	m.notice = components.NewSuccessNotice("Saved " + path)
}

// exportFilename builds a filesystem-safe transcript filename from the
// chat title and a timestamp.
func exportFilename(chat *model.Chat, now time.Time) string {
	return fmt.Sprintf("%s-%s.txt", sanitizeFilename(chat.Title), now.Format("20060102-150405"))
}

// sanitizeFilename replaces characters that are unsafe in filenames.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "chat"
	}
	return strings.ToLower(b.String())
}
