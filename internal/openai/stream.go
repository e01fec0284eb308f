// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package openai provides the HTTP client for the OpenAI chat-completions API.
package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// doneSentinel terminates a server-sent event stream.
const doneSentinel = "[DONE]"

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader parses the server-sent event stream of a streaming reply.
// Each event is a "data:" line carrying a JSON delta; the stream ends with
// "data: [DONE]".
type StreamReader struct {
	reader *bufio.Reader
	// strings.Builder avoids quadratic allocations while accumulating
	accumulator strings.Builder
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream and calls the callback for each content fragment,
// then once more with Done set. Blocks until the stream is complete or the
// context is cancelled.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			chunk, err := s.readChunk()
			if err != nil {
				if err == io.EOF {
					callback(StreamChunk{Done: true})
					return nil
				}
				return err
			}

			if chunk != nil {
				callback(*chunk)
				if chunk.Done {
					return nil
				}
			}
		}
	}
}

// readChunk reads and parses a single event line from the stream.
// Returns (nil, nil) for lines that carry no content.
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(strings.TrimSpace(line)) == 0 {
			return nil, io.EOF
		}
		if len(strings.TrimSpace(line)) == 0 {
			return nil, err
		}
		// Fall through and process the final unterminated line.
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	// Only "data:" lines carry payload; comments and event names are skipped.
	payload, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return nil, nil
	}
	payload = strings.TrimSpace(payload)

	if payload == doneSentinel {
		return &StreamChunk{Done: true}, nil
	}

	var event streamResponse
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		// Skip malformed events
		return nil, nil
	}

	if len(event.Choices) == 0 {
		return nil, nil
	}

	content := event.Choices[0].Delta.Content
	if content != "" {
		s.accumulator.WriteString(content)
	}

	return &StreamChunk{Content: content}, nil
}

// Accumulated returns all content received so far.
func (s *StreamReader) Accumulated() string {
	return s.accumulator.String()
}
