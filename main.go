// simplechat TUI - a terminal chat client for OpenAI-compatible APIs.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/simplechat-tui/internal/config"
	"github.com/jeranaias/simplechat-tui/internal/openai"
	"github.com/jeranaias/simplechat-tui/internal/session"
	"github.com/jeranaias/simplechat-tui/internal/store"
	"github.com/jeranaias/simplechat-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("simplechat %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
	}
	config.SetGlobal(cfg)

	if cfg.Debug.LogEnabled {
		logPath := cfg.Debug.LogFile
		if logPath == "" {
			if dir, err := config.ConfigDir(); err == nil {
				logPath = filepath.Join(dir, "debug.log")
			}
		}
		if logPath != "" {
			f, err := tea.LogToFile(logPath, "simplechat")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not open debug log: %v\n", err)
			} else {
				defer f.Close()
			}
		}
	}

	st, err := store.OpenDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening state store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	client := openai.NewClientWithConfig(&openai.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Model:   cfg.API.Model,
		Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second,
	})

	manager := session.New(client, st)
	defer manager.Close()

	// A key from config or env wins over the persisted one
	if cfg.API.Key != "" {
		manager.SetAPIKey(cfg.API.Key)
	}

	p := tea.NewProgram(
		chat.New(cfg, manager),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Live-reload config edits while the app runs; model and stream mode
	// pick up on the next send
	watcher, err := config.NewWatcher(func(updated *config.Config) {
		client.SetModel(updated.API.Model)
		p.Send(chat.ConfigReloadedMsg{Config: updated})
	})
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running simplechat: %v\n", err)
		os.Exit(1)
	}
}
