// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scholarlabs/scholar-tui/internal/wire"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the controller-owned conversation state for one research
// session. All mutation flows through Apply/End/Fail; no shared references
// to the internals escape, so records are applied atomically with respect to
// the UI loop.
type Session struct {
	ID       string
	Messages []*Message

	// Status is the transient label from the most recent status/log record.
	Status string

	// Timeline holds the most recent TimelineLimit status entries, oldest
	// first, with immediate duplicates collapsed.
	Timeline []TimelineEntry

	// DroppedRecords counts records skipped by the decoder or reducer,
	// surfaced as a diagnostic in the status bar.
	DroppedRecords int

	now func() time.Time
}

// New creates an empty session.
func New() *Session {
	return &Session{
		ID:  uuid.NewString(),
		now: time.Now,
	}
}

// BeginTurn appends the user question and a fresh agent message, which
// becomes the target of subsequent Apply calls. The transient status resets
// for the new turn.
func (s *Session) BeginTurn(question string) {
	user := newMessage(RoleUser)
	user.Content = question
	user.State = StateSettled
	s.Messages = append(s.Messages, user, newMessage(RoleAgent))
	s.Status = ""
}

// Current returns the agent message of the active turn, or nil before the
// first turn.
func (s *Session) Current() *Message {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAgent {
			return s.Messages[i]
		}
	}
	return nil
}

// Question returns the user question of the active turn.
func (s *Session) Question() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// History returns the full conversation as {role, content} pairs for the
// next request, excluding the still-empty active agent message.
func (s *Session) History() []wire.TurnMessage {
	var history []wire.TurnMessage
	for _, m := range s.Messages {
		if m.Role == RoleAgent && m.Content == "" {
			continue
		}
		history = append(history, wire.TurnMessage{Role: string(m.Role), Content: m.Content})
	}
	return history
}

// =============================================================================
// REDUCER
// =============================================================================

// Apply folds one record into the active turn. Records arriving after the
// message has settled are dropped; a settled message is immutable.
func (s *Session) Apply(rec wire.Record) {
	m := s.Current()
	if m == nil || m.State == StateSettled {
		s.DroppedRecords++
		return
	}

	switch rec.Type {
	case wire.RecordToken:
		if m.State == StateEmpty {
			m.State = StateStreaming
		}
		if m.State == StateStreaming {
			m.Content += rec.Text()
		}

	case wire.RecordStatus, wire.RecordLog:
		s.setStatus(rec.Text())

	case wire.RecordSources:
		for _, u := range rec.URLs() {
			m.addSource(u)
		}

	case wire.RecordFinal:
		s.applyFinal(m, rec)

	case wire.RecordError:
		// Diagnostic only: never shown as message content.
		s.setStatus("error: " + rec.Text())

	default:
		s.DroppedRecords++
	}
}

// AddDropped folds a decoder-level drop count into the diagnostic counter,
// alongside the records the reducer itself refuses.
func (s *Session) AddDropped(n int) {
	if n > 0 {
		s.DroppedRecords += n
	}
}

// setStatus replaces the transient status and appends a timeline entry,
// collapsing an immediate duplicate of the previous label.
func (s *Session) setStatus(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	s.Status = label

	if n := len(s.Timeline); n > 0 && s.Timeline[n-1].Label == label {
		return
	}
	s.Timeline = append(s.Timeline, TimelineEntry{At: s.now(), Label: label})
	if len(s.Timeline) > TimelineLimit {
		s.Timeline = s.Timeline[len(s.Timeline)-TimelineLimit:]
	}
}

// applyFinal implements the final-record branches.
//
// Documented rule: when both earlier sources records and a non-empty
// final source list exist, final wins. The earlier union is replaced
// wholesale, and citation indices are re-derived against the new list.
func (s *Session) applyFinal(m *Message, rec wire.Record) {
	m.State = StateFinalizing

	text := rec.Text()
	if text == "" {
		// Final without replacement text finalizes the accumulated content.
		text = m.Content
	}

	body, block := splitSourcesBlock(text)

	if len(rec.Sources) > 0 {
		// Authoritative list: replace, then title each index from the
		// trailing citation block, falling back to the URL host.
		m.replaceSources(rec.Sources)
		_, titles := parseCitationBlock(block)
		fillTitleFallbacks(titles, m.Sources)
		m.CitationTitles = titles
		m.Content = strings.TrimSpace(body)
		return
	}

	// No source list on the record: mine the text's own citation block.
	urls, titles := parseCitationBlock(block)
	if len(urls) > 0 {
		m.replaceSources(urls)
	}
	fillTitleFallbacks(titles, m.Sources)
	m.CitationTitles = titles

	// In all branches the trailing Sources heading block is stripped from
	// the displayed content; absent a heading, body is the raw payload.
	m.Content = strings.TrimSpace(body)
}

// =============================================================================
// STREAM LIFECYCLE
// =============================================================================

// End marks the end of the record stream. The active message settles and
// its content becomes immutable.
func (s *Session) End() {
	if m := s.Current(); m != nil {
		m.State = StateSettled
	}
}

// Fail aborts the active turn gracefully: the failure lands on the timeline,
// partial content stays visible, and the message settles so already-rendered
// text is never discarded.
func (s *Session) Fail(err error) {
	s.setStatus(fmt.Sprintf("stream failed: %v", err))
	s.End()
}
