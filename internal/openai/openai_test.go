// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package openai provides the HTTP client for the OpenAI chat-completions API.
package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if msg.Role != "user" {
		t.Errorf("Role = %q, want 'user'", msg.Role)
	}
	if msg.Content != "Hello" {
		t.Errorf("Content = %q, want 'Hello'", msg.Content)
	}
}

func TestNewSystemMessage(t *testing.T) {
	msg := NewSystemMessage("You are a helpful assistant.")

	if msg.Role != "system" {
		t.Errorf("Role = %q, want 'system'", msg.Role)
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "https://api.openai.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Model != "gpt-3.5-turbo" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
}

func TestNewClientWithConfig_FillsDefaults(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test"})

	if client.config.Model != "gpt-3.5-turbo" {
		t.Errorf("Model default not applied, got %q", client.config.Model)
	}
	if client.config.Timeout == 0 {
		t.Error("Timeout default not applied")
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{BaseURL: url, Timeout: 5 * time.Second})
}

func TestChat_FullReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Path = %q, want /v1/chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"fine"}}]}`))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).Chat(context.Background(), "sk-test", []Message{
		NewUserMessage("how are you"),
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "fine" {
		t.Errorf("Reply = %q, want %q", reply, "fine")
	}
}

func TestChat_MissingKeyFailsLocally(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Chat(context.Background(), "  ", nil)
	if err != ErrMissingKey {
		t.Errorf("err = %v, want ErrMissingKey", err)
	}
	if called {
		t.Error("Empty key must not issue a network call")
	}
}

func TestChat_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{
			name:   "invalid api key",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			check:  IsAuthError,
		},
		{
			name:   "model not found",
			status: http.StatusNotFound,
			body:   `{"error":{"message":"The model does not exist","type":"invalid_request_error","code":"model_not_found"}}`,
			check:  IsModelNotFound,
		},
		{
			name:   "context length exceeded",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"This model's maximum context length is 4097 tokens","type":"invalid_request_error","code":"context_length_exceeded"}}`,
			check:  IsContextExceeded,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Chat(context.Background(), "sk-test", nil)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !tc.check(err) {
				t.Errorf("Error %v not mapped to expected category", err)
			}
		})
	}
}

func TestChat_UnrecognizedErrorPassesMessageThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Chat(context.Background(), "sk-test", nil)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(err.Error(), "Rate limit reached") {
		t.Errorf("err = %v, want provider message passed through", err)
	}
}

func TestChat_UnreadableErrorBodyIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Chat(context.Background(), "sk-test", nil)
	if err != ErrGenericRequest {
		t.Errorf("err = %v, want ErrGenericRequest", err)
	}
}

func TestChat_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed server: every dial fails.

	_, err := newTestClient(srv.URL).Chat(context.Background(), "sk-test", nil)
	if !IsConnectionError(err) {
		t.Errorf("err = %v, want connection error", err)
	}
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

func TestChatStream_ConcatenatesFragments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"index\":0,\"delta\":{\"role\":\"assistant\"}}]}\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"Hel\"}}]}\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"lo\"}}]}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	var got strings.Builder
	sawDone := false
	err := newTestClient(srv.URL).ChatStream(context.Background(), "sk-test", nil, func(chunk StreamChunk) {
		got.WriteString(chunk.Content)
		if chunk.Done {
			sawDone = true
		}
	})
	if err != nil {
		t.Fatalf("ChatStream failed: %v", err)
	}
	if got.String() != "Hello" {
		t.Errorf("Concatenated content = %q, want %q", got.String(), "Hello")
	}
	if !sawDone {
		t.Error("Stream never delivered a Done chunk")
	}
}

func TestChatStream_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).ChatStream(context.Background(), "sk-test", nil, func(StreamChunk) {})
	if !IsAuthError(err) {
		t.Errorf("err = %v, want auth error", err)
	}
}

func TestChatStream_MissingKeyFailsLocally(t *testing.T) {
	err := NewClient().ChatStream(context.Background(), "", nil, func(StreamChunk) {})
	if err != ErrMissingKey {
		t.Errorf("err = %v, want ErrMissingKey", err)
	}
}

// =============================================================================
// STREAM READER TESTS
// =============================================================================

func TestStreamReader_SkipsMalformedAndNonDataLines(t *testing.T) {
	raw := ": keep-alive comment\n" +
		"data: not-json\n" +
		"data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"ok\"}}]}\n" +
		"data: [DONE]\n"

	reader := NewStreamReader(strings.NewReader(raw))
	var got strings.Builder
	err := reader.Process(context.Background(), func(chunk StreamChunk) {
		got.WriteString(chunk.Content)
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got.String() != "ok" {
		t.Errorf("Content = %q, want %q", got.String(), "ok")
	}
	if reader.Accumulated() != "ok" {
		t.Errorf("Accumulated = %q, want %q", reader.Accumulated(), "ok")
	}
}

func TestStreamReader_EOFWithoutDoneStillCompletes(t *testing.T) {
	raw := "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"partial\"}}]}\n"

	reader := NewStreamReader(strings.NewReader(raw))
	sawDone := false
	err := reader.Process(context.Background(), func(chunk StreamChunk) {
		if chunk.Done {
			sawDone = true
		}
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !sawDone {
		t.Error("EOF should terminate the stream with a Done chunk")
	}
}
