// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// Event is a state change produced off the owning goroutine. Events are
// delivered through Manager.Events() and must be handed back to Apply on
// the goroutine that drives the manager.
type Event interface {
	isEvent()
}

// ReplyEvent carries a complete assistant reply for a conversation.
type ReplyEvent struct {
	ChatID  string
	Content string
}

// FragmentEvent carries one streamed fragment of an assistant reply. All
// fragments of a reply share the same MessageID.
type FragmentEvent struct {
	ChatID    string
	MessageID string
	Fragment  string
}

// DoneEvent marks the end of a send, successful or not.
type DoneEvent struct {
	ChatID string
}

// ErrorEvent carries a user-facing error message.
type ErrorEvent struct {
	Message string
}

// ErrorClearEvent dismisses the error identified by Token. Stale tokens
// are ignored so a newer error is never cleared early.
type ErrorClearEvent struct {
	Token int
}

func (ReplyEvent) isEvent()      {}
func (FragmentEvent) isEvent()   {}
func (DoneEvent) isEvent()       {}
func (ErrorEvent) isEvent()      {}
func (ErrorClearEvent) isEvent() {}
