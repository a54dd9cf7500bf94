// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package wire implements the NDJSON record protocol spoken by the research
// backend: the record schema, a chunk-invariant frame decoder, and the
// streaming HTTP client.
package wire

import "encoding/json"

// =============================================================================
// RECORD SCHEMA
// =============================================================================

// RecordType identifies the kind of a stream record.
type RecordType string

const (
	// RecordToken carries an incremental answer fragment.
	RecordToken RecordType = "token"
	// RecordStatus carries a human-readable progress label.
	RecordStatus RecordType = "status"
	// RecordLog carries an agent activity line, treated like status.
	RecordLog RecordType = "log"
	// RecordSources carries a batch of source URLs discovered mid-stream.
	RecordSources RecordType = "sources"
	// RecordFinal carries the authoritative answer and source list.
	RecordFinal RecordType = "final"
	// RecordError carries a backend-side failure description.
	RecordError RecordType = "error"
)

// validTypes gates decoding: unknown types are dropped at the frame layer.
var validTypes = map[RecordType]bool{
	RecordToken:   true,
	RecordStatus:  true,
	RecordLog:     true,
	RecordSources: true,
	RecordFinal:   true,
	RecordError:   true,
}

// Record is one line of the stream. Content is kept raw because its shape
// depends on Type: a JSON string for token/status/log/final/error, a JSON
// array of URL strings for sources.
type Record struct {
	Type    RecordType      `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
	Sources []string        `json:"sources,omitempty"`
}

// Text decodes Content as a string. Returns "" when Content is absent or not
// a JSON string, so callers never branch on decode errors.
func (r Record) Text() string {
	var s string
	if err := json.Unmarshal(r.Content, &s); err != nil {
		return ""
	}
	return s
}

// URLs decodes Content as a string array for sources records.
func (r Record) URLs() []string {
	var urls []string
	if err := json.Unmarshal(r.Content, &urls); err != nil {
		return nil
	}
	return urls
}

// TokenRecord builds a token record carrying text. The UI uses it to fold
// locally batched token content back through the single reducer entry point.
func TokenRecord(text string) Record {
	content, _ := json.Marshal(text)
	return Record{Type: RecordToken, Content: content}
}

// TurnMessage is one conversation turn in the request body.
type TurnMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
