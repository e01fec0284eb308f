// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/simplechat-tui/internal/model"
	"github.com/jeranaias/simplechat-tui/internal/openai"
	"github.com/jeranaias/simplechat-tui/internal/store"
)

// ErrorDisplayDuration is how long a user-facing error stays visible
// before it is automatically dismissed.
const ErrorDisplayDuration = 4 * time.Second

// eventBuffer sizes the event channel. Streamed replies produce many small
// fragments, so leave headroom before the worker goroutine blocks.
const eventBuffer = 64

// Client is the completion backend the manager sends conversations to.
// *openai.Client satisfies it; tests substitute a stub.
type Client interface {
	Chat(ctx context.Context, apiKey string, messages []openai.Message) (string, error)
	ChatStream(ctx context.Context, apiKey string, messages []openai.Message, callback openai.StreamCallback) error
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns all conversation state: the chat list, the selection, the
// draft, and the in-flight send. All methods except event delivery must be
// called from a single goroutine; worker goroutines communicate back only
// through the Events channel, whose events the owner feeds to Apply.
type Manager struct {
	client Client
	store  *store.Store

	ctx    context.Context
	cancel context.CancelFunc

	chats      []*model.Chat
	selectedID string
	apiKey     string
	draft      string
	busy       bool
	streaming  bool

	lastError  string
	errorToken int

	events chan Event
}

// New creates a manager backed by the given client. A nil store disables
// persistence; otherwise previously saved state is restored immediately.
func New(client Client, st *store.Store) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		client: client,
		store:  st,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, eventBuffer),
	}
	m.restore()
	// A fresh install starts with one default conversation so the list is
	// never empty and a selection always exists.
	if len(m.chats) == 0 {
		m.NewChat()
	}
	return m
}

// restore loads persisted chats and selection. A selection that no longer
// resolves to a chat falls back to the front of the list.
func (m *Manager) restore() {
	if m.store == nil {
		return
	}
	m.chats = m.store.LoadChats()
	m.apiKey = m.store.LoadAPIKey()
	m.selectedID = m.store.LoadSelected()
	if m.chatByID(m.selectedID) == nil {
		m.selectedID = ""
		if len(m.chats) > 0 {
			m.selectedID = m.chats[0].ID
		}
	}
}

// Close stops background work. Pending events are discarded.
func (m *Manager) Close() {
	m.cancel()
}

// Events returns the channel worker goroutines deliver events on. The
// owning goroutine must pass each received event to Apply.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Chats returns the conversation list, most recently created first.
func (m *Manager) Chats() []*model.Chat {
	return m.chats
}

// Selected returns the selected conversation, or nil when none is selected.
func (m *Manager) Selected() *model.Chat {
	return m.chatByID(m.selectedID)
}

// SelectedID returns the id of the selected conversation, or "".
func (m *Manager) SelectedID() string {
	return m.selectedID
}

// APIKey returns the configured API key.
func (m *Manager) APIKey() string {
	return m.apiKey
}

// Draft returns the unsent input text.
func (m *Manager) Draft() string {
	return m.draft
}

// Busy reports whether a send is in flight.
func (m *Manager) Busy() bool {
	return m.busy
}

// Streaming reports whether replies are requested incrementally.
func (m *Manager) Streaming() bool {
	return m.streaming
}

// LastError returns the current user-facing error, or "".
func (m *Manager) LastError() string {
	return m.lastError
}

func (m *Manager) chatByID(id string) *model.Chat {
	if id == "" {
		return nil
	}
	for _, chat := range m.chats {
		if chat.ID == id {
			return chat
		}
	}
	return nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// NewChat creates a conversation, inserts it at the front of the list, and
// selects it.
func (m *Manager) NewChat() *model.Chat {
	chat := model.NewChat()
	m.chats = append([]*model.Chat{chat}, m.chats...)
	m.selectedID = chat.ID
	m.persist()
	return chat
}

// SelectChat makes the chat with the given id current. An unknown id leaves
// the selection unchanged.
func (m *Manager) SelectChat(id string) {
	if m.chatByID(id) == nil {
		return
	}
	m.selectedID = id
	m.persist()
}

// RenameChat sets a chat's title. A blank title falls back to the default.
func (m *Manager) RenameChat(id, title string) {
	chat := m.chatByID(id)
	if chat == nil {
		return
	}
	chat.SetTitle(title)
	m.persist()
}

// DeleteChat removes a conversation. Deleting the selected chat moves the
// selection to the front of the remaining list, or clears it.
func (m *Manager) DeleteChat(id string) {
	idx := -1
	for i, chat := range m.chats {
		if chat.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	m.chats = append(m.chats[:idx], m.chats[idx+1:]...)
	if m.selectedID == id {
		m.selectedID = ""
		if len(m.chats) > 0 {
			m.selectedID = m.chats[0].ID
		}
	}
	m.persist()
}

// DeleteMessage removes one message from a conversation.
func (m *Manager) DeleteMessage(chatID, messageID string) {
	chat := m.chatByID(chatID)
	if chat == nil {
		return
	}
	if chat.RemoveMessage(messageID) {
		m.persist()
	}
}

// SetDraft replaces the unsent input text.
func (m *Manager) SetDraft(text string) {
	m.draft = text
}

// SetAPIKey stores the API key and persists it.
func (m *Manager) SetAPIKey(key string) {
	m.apiKey = strings.TrimSpace(key)
	if m.store != nil {
		m.store.SaveAPIKey(m.apiKey)
	}
}

// SetStreaming toggles incremental reply delivery.
func (m *Manager) SetStreaming(on bool) {
	m.streaming = on
}

// =============================================================================
// SENDING
// =============================================================================

// Send submits the given text to the selected conversation. Validation
// failures surface through LastError and leave the conversation untouched.
// On success the user message is appended, the draft is cleared, and a
// worker goroutine requests the reply; its results arrive via Events.
func (m *Manager) Send(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		m.setError("Type a message first.")
		return
	}
	if m.busy {
		m.setError("A reply is already in progress.")
		return
	}
	chat := m.Selected()
	if chat == nil {
		m.setError("Select or create a chat first.")
		return
	}
	if m.apiKey == "" {
		m.setError(openai.ErrMissingKey.Message)
		return
	}

	chat.AddMessage(model.NewUserMessage(text))
	m.draft = ""
	m.busy = true
	m.persist()

	// Snapshot everything the worker needs; the live chat may be renamed
	// or deleted before the reply lands.
	chatID := chat.ID
	apiKey := m.apiKey
	payload := make([]openai.Message, 0, len(chat.Messages))
	for _, msg := range chat.Messages {
		payload = append(payload, openai.Message{Role: msg.Role.String(), Content: msg.Content})
	}

	if m.streaming {
		go m.sendStreaming(chatID, apiKey, payload)
	} else {
		go m.sendFull(chatID, apiKey, payload)
	}
}

func (m *Manager) sendFull(chatID, apiKey string, payload []openai.Message) {
	content, err := m.client.Chat(m.ctx, apiKey, payload)
	if err != nil {
		m.emit(ErrorEvent{Message: userMessage(err)})
	} else {
		m.emit(ReplyEvent{ChatID: chatID, Content: content})
	}
	m.emit(DoneEvent{ChatID: chatID})
}

func (m *Manager) sendStreaming(chatID, apiKey string, payload []openai.Message) {
	messageID := uuid.New().String()
	err := m.client.ChatStream(m.ctx, apiKey, payload, func(chunk openai.StreamChunk) {
		if chunk.Error != nil {
			m.emit(ErrorEvent{Message: userMessage(chunk.Error)})
			return
		}
		if chunk.Content != "" {
			m.emit(FragmentEvent{ChatID: chatID, MessageID: messageID, Fragment: chunk.Content})
		}
	})
	if err != nil {
		m.emit(ErrorEvent{Message: userMessage(err)})
	}
	m.emit(DoneEvent{ChatID: chatID})
}

// emit delivers an event to the owning goroutine, giving up on shutdown.
func (m *Manager) emit(event Event) {
	select {
	case m.events <- event:
	case <-m.ctx.Done():
	}
}

// userMessage extracts display copy from a client error.
func userMessage(err error) string {
	var clientErr *openai.ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	return openai.ErrGenericRequest.Message
}

// =============================================================================
// EVENT APPLICATION
// =============================================================================

// Apply folds an event into the manager's state. It must run on the same
// goroutine as every other state-mutating method.
func (m *Manager) Apply(event Event) {
	switch e := event.(type) {
	case ReplyEvent:
		chat := m.chatByID(e.ChatID)
		if chat == nil {
			return // chat was deleted mid-flight, drop the reply
		}
		chat.AddMessage(model.NewAssistantMessage(e.Content))
		m.persist()

	case FragmentEvent:
		// Fragments arrive many times per reply; writes are batched until
		// the DoneEvent persist instead of hitting the store per chunk.
		chat := m.chatByID(e.ChatID)
		if chat == nil {
			return
		}
		if msg := chat.MessageByID(e.MessageID); msg != nil {
			msg.Append(e.Fragment)
			return
		}
		msg := model.NewAssistantMessage(e.Fragment)
		msg.ID = e.MessageID
		chat.AddMessage(msg)

	case DoneEvent:
		m.busy = false
		m.persist()

	case ErrorEvent:
		m.setError(e.Message)

	case ErrorClearEvent:
		if e.Token == m.errorToken {
			m.lastError = ""
		}
	}
}

// setError records a user-facing error and schedules its dismissal. A newer
// error restarts the clock; the stale clear is ignored by token.
func (m *Manager) setError(message string) {
	m.lastError = message
	m.errorToken++
	token := m.errorToken
	time.AfterFunc(ErrorDisplayDuration, func() {
		m.emit(ErrorClearEvent{Token: token})
	})
}

// persist writes the chat list and selection through to the store. Save
// failures are ignored; persistence is best effort.
func (m *Manager) persist() {
	if m.store == nil {
		return
	}
	m.store.SaveChats(m.chats)
	m.store.SaveSelected(m.selectedID)
}
