// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "time"

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// Role identifies which side of the conversation produced a message.
type Role string

// Conversation roles.
const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// State is the lifecycle state of an agent message within one turn.
type State int

// Message lifecycle states. Content is mutable only until Settled.
const (
	StateEmpty State = iota
	StateStreaming
	StateFinalizing
	StateSettled
)

// String returns the state name for diagnostics.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateStreaming:
		return "streaming"
	case StateFinalizing:
		return "finalizing"
	case StateSettled:
		return "settled"
	}
	return "unknown"
}

// Message is one conversation turn contribution.
//
// Sources is an ordered set: URLs are de-duplicated by exact string equality
// and kept in first-seen order. CitationTitles maps the 1-based citation
// index to a display title; index i always refers to Sources[i-1].
type Message struct {
	Role           Role
	Content        string
	Sources        []string
	CitationTitles map[int]string
	State          State

	sourceSeen map[string]bool
}

// newMessage creates an empty message for the given role.
func newMessage(role Role) *Message {
	return &Message{
		Role:           role,
		CitationTitles: make(map[int]string),
		sourceSeen:     make(map[string]bool),
	}
}

// addSource unions one URL into the ordered source set.
func (m *Message) addSource(url string) {
	if url == "" || m.sourceSeen[url] {
		return
	}
	m.sourceSeen[url] = true
	m.Sources = append(m.Sources, url)
}

// replaceSources installs an authoritative source list, discarding every URL
// unioned earlier in the turn. The new list is itself de-duplicated in order.
func (m *Message) replaceSources(urls []string) {
	m.Sources = nil
	m.sourceSeen = make(map[string]bool)
	for _, u := range urls {
		m.addSource(u)
	}
}

// Title returns the display title for the 1-based citation index, falling
// back to the bare URL when no title is known.
func (m *Message) Title(index int) string {
	if t, ok := m.CitationTitles[index]; ok && t != "" {
		return t
	}
	if index >= 1 && index <= len(m.Sources) {
		return m.Sources[index-1]
	}
	return ""
}

// =============================================================================
// STATUS TIMELINE
// =============================================================================

// TimelineLimit is the number of retained timeline entries.
const TimelineLimit = 12

// TimelineEntry is one timestamped status/log label.
type TimelineEntry struct {
	At    time.Time
	Label string
}
