// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the application's conversation state machine.
//
// A Manager owns the chat list, the current selection, the draft, and at
// most one in-flight send. It is deliberately single-threaded: the UI loop
// calls its methods directly, and background work (requesting completions)
// reports back through a channel of events that the same loop folds in via
// Apply. This keeps every state transition on one goroutine without locks.
//
// Replies are matched to conversations by id captured at send time, so a
// chat renamed or deleted while its reply is in flight never receives
// another chat's content; replies to deleted chats are dropped.
package session
