// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// STREAMING CLIENT
// =============================================================================

// DialTimeout bounds connection establishment and the wait for response
// headers. Once the stream is open there is no read deadline: research turns
// legitimately go quiet for long stretches while the agent works, so
// mid-stream liveness is left to cancellation.
const DialTimeout = 15 * time.Second

// readBufferSize is the chunk size for stream reads. Fragments of any size
// are fine; the decoder owns reassembly.
const readBufferSize = 4096

// StreamError is returned when a stream dies after producing records. It
// carries the token text accumulated before the failure so callers can keep
// the partial answer on screen.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream interrupted: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// Event is one item of a stream: a decoded record, a terminal error, or a
// terminal drop summary.
type Event struct {
	Record Record
	Err    error

	// Dropped is the decoder's discarded-line total for the stream,
	// reported once on the final event so the UI can surface it.
	Dropped int
}

// Client speaks the research streaming API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: DialTimeout,
			},
		},
	}
}

// Stream opens a research stream for the conversation so far. It returns
// once headers arrive; records are then delivered on the channel until the
// stream ends, the context is canceled, or the connection drops. The channel
// is always closed, and a mid-stream failure is delivered as a final Event
// with a *StreamError.
func (c *Client) Stream(ctx context.Context, history []TurnMessage) (<-chan Event, error) {
	body, err := json.Marshal(map[string]any{"messages": history})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/research/stream", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connecting to backend: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("backend returned %s", resp.Status)
	}

	events := make(chan Event)
	go c.readLoop(ctx, resp.Body, events)
	return events, nil
}

// readLoop pumps decoded records to the events channel until EOF or error.
func (c *Client) readLoop(ctx context.Context, body io.ReadCloser, events chan<- Event) {
	defer close(events)
	defer body.Close()

	var dec Decoder
	var partial strings.Builder
	buf := make([]byte, readBufferSize)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, rec := range dec.Push(buf[:n]) {
				if rec.Type == RecordToken {
					partial.WriteString(rec.Text())
				}
				select {
				case events <- Event{Record: rec}:
				case <-ctx.Done():
					return
				}
			}
		}
		if err == io.EOF {
			dec.Finish()
			if n := dec.Dropped(); n > 0 {
				select {
				case events <- Event{Dropped: n}:
				case <-ctx.Done():
				}
			}
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			select {
			case events <- Event{Err: &StreamError{Partial: partial.String(), Err: err}, Dropped: dec.Dropped()}:
			case <-ctx.Done():
			}
			return
		}
	}
}
