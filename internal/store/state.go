// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"

	"github.com/jeranaias/simplechat-tui/internal/model"
)

// Well-known keys for persisted application state.
const (
	keyChats    = "chats"
	keySelected = "selectedChat"
	keyAPIKey   = "apiKey"
)

// =============================================================================
// TYPED STATE ACCESSORS
// =============================================================================
//
// Loads are lenient: a missing or undecodable record behaves exactly like a
// fresh install. Corruption never surfaces to callers as an error, so the
// application always starts with usable (if empty) state.

// SaveChats persists the full conversation list as JSON.
func (s *Store) SaveChats(chats []*model.Chat) error {
	data, err := json.Marshal(chats)
	if err != nil {
		return err
	}
	return s.Put(keyChats, data)
}

// LoadChats returns the persisted conversation list, or nil when nothing
// usable is stored.
func (s *Store) LoadChats() []*model.Chat {
	data, ok, err := s.Get(keyChats)
	if err != nil || !ok {
		return nil
	}
	var chats []*model.Chat
	if err := json.Unmarshal(data, &chats); err != nil {
		return nil
	}
	return chats
}

// SaveSelected persists the id of the selected conversation.
func (s *Store) SaveSelected(id string) error {
	return s.Put(keySelected, []byte(id))
}

// LoadSelected returns the persisted selection, or "" when none is stored.
func (s *Store) LoadSelected() string {
	data, ok, err := s.Get(keySelected)
	if err != nil || !ok {
		return ""
	}
	return string(data)
}

// SaveAPIKey persists the API key.
func (s *Store) SaveAPIKey(key string) error {
	return s.Put(keyAPIKey, []byte(key))
}

// LoadAPIKey returns the persisted API key, or "" when none is stored.
func (s *Store) LoadAPIKey() string {
	data, ok, err := s.Get(keyAPIKey)
	if err != nil || !ok {
		return ""
	}
	return string(data)
}
