// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholarlabs/scholar-tui/internal/theme"
	"github.com/scholarlabs/scholar-tui/internal/wire"
)

// =============================================================================
// MESSAGES
// =============================================================================

// Every stream-scoped message carries the generation it belongs to. A new
// query bumps the generation, so messages from an abandoned stream are
// recognized and dropped instead of corrupting the new turn.

// streamStartedMsg reports that the backend accepted the request and the
// record channel is live.
type streamStartedMsg struct {
	gen    int
	events <-chan wire.Event
}

// streamFailedMsg reports that the stream could not be opened.
type streamFailedMsg struct {
	gen int
	err error
}

// recordMsg delivers one stream event.
type recordMsg struct {
	gen int
	ev  wire.Event
}

// streamDoneMsg reports a cleanly closed record channel.
type streamDoneMsg struct {
	gen int
}

// streamTickMsg paces token buffer flushes while streaming.
type streamTickMsg struct {
	Time time.Time
}

// themeMsg delivers the palette extracted from the turn's sources.
type themeMsg struct {
	gen     int
	palette theme.Palette
}

// exportDoneMsg reports a finished export attempt.
type exportDoneMsg struct {
	path string
	err  error
}

// =============================================================================
// COMMANDS
// =============================================================================

// startStreamCmd opens the stream off the update loop; connecting can block
// up to the dial timeout.
func startStreamCmd(ctx context.Context, client *wire.Client, history []wire.TurnMessage, gen int) tea.Cmd {
	return func() tea.Msg {
		events, err := client.Stream(ctx, history)
		if err != nil {
			return streamFailedMsg{gen: gen, err: err}
		}
		return streamStartedMsg{gen: gen, events: events}
	}
}

// waitForEvent blocks on the next stream event. Channel close means the
// stream ended cleanly.
func waitForEvent(gen int, events <-chan wire.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamDoneMsg{gen: gen}
		}
		return recordMsg{gen: gen, ev: ev}
	}
}

// extractThemeCmd runs favicon palette extraction for the settled turn.
func extractThemeCmd(extractor *theme.Extractor, sources []string, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), theme.FetchTimeout)
		defer cancel()
		return themeMsg{gen: gen, palette: extractor.Extract(ctx, sources)}
	}
}
