// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package openai provides the HTTP client for the OpenAI chat-completions API.
package openai

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Message is a single role-tagged entry in the request history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// ChatRequest is the body POSTed to the chat-completions endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is a complete (non-streaming) reply.
type ChatResponse struct {
	ID      string       `json:"id,omitempty"`
	Model   string       `json:"model,omitempty"`
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice is one candidate reply. The API returns a single choice unless
// asked otherwise.
type ChatChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Content returns the text of the first choice, or "" when the response
// carries none.
func (r *ChatResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// =============================================================================
// STREAMING TYPES
// =============================================================================

// streamResponse is one decoded SSE event of a streaming reply.
type streamResponse struct {
	ID      string         `json:"id,omitempty"`
	Model   string         `json:"model,omitempty"`
	Choices []streamChoice `json:"choices"`
}

type streamChoice struct {
	Index        int         `json:"index"`
	Delta        streamDelta `json:"delta"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type streamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// StreamChunk is delivered to the stream callback for each content fragment.
// The final chunk has Done set; a failed stream delivers a chunk with Error
// set instead.
type StreamChunk struct {
	Content string
	Done    bool
	Error   error
}

// =============================================================================
// ERROR TYPES (wire format)
// =============================================================================

// errorResponse is the provider's error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

// errorBody carries the provider's error details.
type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}
