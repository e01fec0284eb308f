// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package openai provides the HTTP client for the OpenAI chat-completions API.
//
// The client supports two call shapes:
//   - Chat: one request, one complete reply.
//   - ChatStream: a server-sent event stream of content fragments terminated
//     by a [DONE] sentinel.
//
// Errors are typed. Provider error codes map onto a small taxonomy
// (authentication, unknown model, context length, connection) with
// user-facing copy; unrecognized provider errors pass the provider's own
// message through. An empty API key fails locally before any network I/O so
// callers can tell local validation failures from server-reported ones.
//
// The client enforces no retries and no timeout beyond the HTTP transport's
// for streaming calls; cancellation is the caller's context.
package openai
