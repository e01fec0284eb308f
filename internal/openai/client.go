// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package openai provides the HTTP client for the OpenAI chat-completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the completion client. The Message is
// user-facing copy; Cause keeps the underlying error for unwrapping.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeAuth
	ErrTypeModelNotFound
	ErrTypeContextExceeded
	ErrTypeConnection
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrMissingKey      = &ClientError{Type: ErrTypeAuth, Message: "Configure an API key first."}
	ErrInvalidKey      = &ClientError{Type: ErrTypeAuth, Message: "Provide a valid API key."}
	ErrModelNotFound   = &ClientError{Type: ErrTypeModelNotFound, Message: "The selected model does not exist."}
	ErrContextExceeded = &ClientError{Type: ErrTypeContextExceeded, Message: "The conversation is too long for this model. Shorten your message or start a new chat."}
	ErrConnection      = &ClientError{Type: ErrTypeConnection, Message: "Network connection failed. Check your network."}
	ErrGenericRequest  = &ClientError{Type: ErrTypeUnknown, Message: "Request failed. Try again later."}
)

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	return errorTypeOf(err) == ErrTypeAuth
}

// IsModelNotFound checks if an error is a model not found error.
func IsModelNotFound(err error) bool {
	return errorTypeOf(err) == ErrTypeModelNotFound
}

// IsContextExceeded checks if an error is a context length error.
func IsContextExceeded(err error) bool {
	return errorTypeOf(err) == ErrTypeContextExceeded
}

// IsConnectionError checks if an error is a transport failure.
func IsConnectionError(err error) bool {
	return errorTypeOf(err) == ErrTypeConnection
}

func errorTypeOf(err error) ErrorType {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type
	}
	return ErrTypeUnknown
}

// mapErrorBody converts a provider error body into a typed client error.
// Unrecognized codes pass the provider's message text through to the user.
func mapErrorBody(body errorBody) *ClientError {
	switch body.Code {
	case "invalid_api_key":
		return ErrInvalidKey
	case "model_not_found":
		return ErrModelNotFound
	case "context_length_exceeded":
		return ErrContextExceeded
	}
	if strings.TrimSpace(body.Message) == "" {
		return ErrGenericRequest
	}
	return &ClientError{Type: ErrTypeUnknown, Message: body.Message}
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the completion client.
type ClientConfig struct {
	// BaseURL is the API base URL (default: https://api.openai.com)
	BaseURL string

	// Model is the chat model to request (default: "gpt-3.5-turbo")
	Model string

	// Timeout for non-streaming requests (default: 60s). Streaming requests
	// are bounded by the caller's context instead.
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "https://api.openai.com",
		Model:   "gpt-3.5-turbo",
		Timeout: 60 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client performs chat-completion calls. It is safe for concurrent use,
// though the session manager only ever has one request in flight.
//
// Example:
//
//	client := openai.NewClient()
//	reply, err := client.Chat(ctx, apiKey, messages)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com"
	}
	if config.Model == "" {
		config.Model = "gpt-3.5-turbo"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// SetModel updates the chat model.
func (c *Client) SetModel(model string) {
	c.config.Model = model
}

func (c *Client) endpoint() string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/v1/chat/completions"
}

// =============================================================================
// CHAT (FULL REPLY)
// =============================================================================

// Chat sends the message history and returns the complete reply content.
// An empty API key fails locally without any network call.
func (c *Client) Chat(ctx context.Context, apiKey string, messages []Message) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", ErrMissingKey
	}

	reqBody := ChatRequest{
		Model:    c.config.Model,
		Messages: messages,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", connectionError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp)
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if len(result.Choices) == 0 {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "response carried no choices"}
	}

	return result.Content(), nil
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// StreamCallback is called for each chunk received during streaming.
type StreamCallback func(chunk StreamChunk)

// ChatStream sends a streaming chat request and calls the callback for each
// content fragment, in arrival order. Returns when the stream terminates or
// an error occurs. The callback is invoked synchronously from the reading
// goroutine; callers hand fragments off to their owning context themselves.
func (c *Client) ChatStream(ctx context.Context, apiKey string, messages []Message, callback StreamCallback) error {
	if strings.TrimSpace(apiKey) == "" {
		return ErrMissingKey
	}

	reqBody := ChatRequest{
		Model:    c.config.Model,
		Messages: messages,
		Stream:   true,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	// No client-level timeout for streaming; the context bounds the call.
	streamClient := &http.Client{}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := streamClient.Do(req)
	if err != nil {
		return connectionError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	reader := NewStreamReader(resp.Body)
	return reader.Process(ctx, callback)
}

// =============================================================================
// ERROR DECODING
// =============================================================================

// decodeAPIError reads a non-200 response body and maps it to a typed error.
// Unreadable bodies collapse to the generic request error.
func decodeAPIError(resp *http.Response) *ClientError {
	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return ErrGenericRequest
	}
	return mapErrorBody(errResp.Error)
}

// connectionError wraps a transport-level failure. Context cancellation and
// deadline expiry surface the same user copy as any other connectivity loss.
func connectionError(err error) *ClientError {
	return &ClientError{Type: ErrTypeConnection, Message: ErrConnection.Message, Cause: err}
}
