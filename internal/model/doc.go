// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
//
// A Chat is a titled, ordered list of Messages. Each Message carries a role
// (system, user, or assistant), a creation timestamp, and mutable content so
// streaming replies can grow in place. Both types serialize to JSON for
// persistence.
//
// Invariants:
//   - Messages within a chat stay in insertion order.
//   - Every chat keeps its hidden system seed message, which is sent to the
//     API but excluded from rendering and from clipboard transcripts.
//   - Chat titles are never empty; empty edits normalize to DefaultTitle.
package model
