// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scholarlabs/scholar-tui/internal/config"
	"github.com/scholarlabs/scholar-tui/internal/docmodel"
	"github.com/scholarlabs/scholar-tui/internal/project"
	"github.com/scholarlabs/scholar-tui/internal/session"
	"github.com/scholarlabs/scholar-tui/internal/theme"
	"github.com/scholarlabs/scholar-tui/internal/ui/styles"
	"github.com/scholarlabs/scholar-tui/internal/wire"
)

// viewMode selects which projection of the settled answer is shown.
type viewMode int

const (
	modeReport viewMode = iota
	modeDeck
)

// Model is the root bubbletea model.
type Model struct {
	cfg       *config.Config
	client    *wire.Client
	extractor *theme.Extractor
	sess      *session.Session

	// Stream state. gen insulates the update loop from messages belonging
	// to a canceled stream; cancel tears down the in-flight request.
	gen       int
	cancel    context.CancelFunc
	events    <-chan wire.Event
	streaming bool
	buf       *StreamingBuffer

	// Projections of the settled turn, nil/zero until finalized.
	structural *docmodel.Model
	report     project.ReportView
	deck       project.SlideDeck

	palette theme.Palette
	st      styles.Set

	exporting bool
	notice    string

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	mode     viewMode
	slideIdx int

	// rendered is the glamour-rendered settled answer, cached because
	// markdown rendering is too expensive per frame.
	rendered string

	width  int
	height int
	ready  bool
}

// NewModel wires the controller from configuration.
func NewModel(cfg *config.Config) Model {
	input := textinput.New()
	input.Placeholder = "Ask a research question..."
	input.Focus()
	input.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	palette := theme.Default()
	return Model{
		cfg:       cfg,
		client:    wire.NewClient(cfg.BackendURL),
		extractor: theme.New(),
		sess:      session.New(),
		buf:       NewStreamingBuffer(),
		palette:   palette,
		st:        styles.New(palette),
		input:     input,
		spin:      sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

// hasAnswer reports whether a settled turn is available for projection.
func (m Model) hasAnswer() bool {
	return m.structural != nil
}

// resize propagates terminal dimensions to the components.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 4

	chromeHeight := lipgloss.Height(m.statusBarView()) + lipgloss.Height(m.inputView()) + 1
	if !m.ready {
		m.viewport = viewport.New(width, height-chromeHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height - chromeHeight
	}
}
