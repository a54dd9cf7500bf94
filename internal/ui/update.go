// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholarlabs/scholar-tui/internal/docmodel"
	"github.com/scholarlabs/scholar-tui/internal/export"
	"github.com/scholarlabs/scholar-tui/internal/project"
	"github.com/scholarlabs/scholar-tui/internal/ui/styles"
	"github.com/scholarlabs/scholar-tui/internal/wire"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.rendered = "" // wrap width changed
		m.refreshAnswerView()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case streamStartedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.events = msg.events
		return m, tea.Batch(waitForEvent(m.gen, m.events), streamTickCmd())

	case streamFailedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.streaming = false
		m.sess.Fail(msg.err)
		m.refreshAnswerView()
		return m, nil

	case recordMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.handleEvent(msg.ev)

	case streamDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.finishTurn()

	case streamTickMsg:
		if !m.streaming {
			return m, nil
		}
		if text, ok := m.buf.Flush(); ok {
			m.sess.Apply(wire.TokenRecord(text))
			m.refreshAnswerView()
		}
		return m, streamTickCmd()

	case themeMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.palette = msg.palette
		m.st = styles.New(m.palette)
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.notice = fmt.Sprintf("export failed: %v", msg.err)
		} else {
			m.notice = "exported " + msg.path
		}
		return m, nil
	}

	return m.updateComponents(msg)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.stopStream()
		return m, tea.Quit

	case "enter":
		return m.submit()

	case "esc":
		if m.streaming {
			m.stopStream()
			m.streaming = false
			m.sess.Fail(context.Canceled)
			m.refreshAnswerView()
		}
		return m, nil

	case "tab":
		if m.hasAnswer() {
			if m.mode == modeReport {
				m.mode = modeDeck
			} else {
				m.mode = modeReport
			}
			m.refreshAnswerView()
		}
		return m, nil

	case "left":
		// Arrow keys drive slide navigation in deck mode; in report mode
		// they fall through to the input's cursor movement.
		if m.mode == modeDeck {
			if m.slideIdx > 0 {
				m.slideIdx--
				m.refreshAnswerView()
			}
			return m, nil
		}

	case "right":
		if m.mode == modeDeck {
			if m.slideIdx < m.deck.Count()-1 {
				m.slideIdx++
				m.refreshAnswerView()
			}
			return m, nil
		}

	case "ctrl+e":
		if m.hasAnswer() && !m.exporting && !m.streaming {
			m.exporting = true
			m.notice = ""
			return m, m.exportPDFCmd()
		}

	case "ctrl+d":
		if m.hasAnswer() && !m.exporting && !m.streaming {
			m.exporting = true
			m.notice = ""
			return m, m.exportMarkdownCmd()
		}
	}

	return m.updateComponents(msg)
}

// submit starts a new research turn from the input field. Any in-flight
// stream is canceled first; its generation is retired so records already in
// transit cannot land on the new turn.
func (m Model) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return m, nil
	}

	m.stopStream()
	m.gen++
	m.buf.Reset()
	m.events = nil

	m.sess.BeginTurn(question)
	m.structural = nil
	m.report = project.ReportView{}
	m.deck = project.SlideDeck{}
	m.rendered = ""
	m.slideIdx = 0
	m.mode = modeReport
	m.notice = ""
	m.streaming = true
	m.input.Reset()
	m.refreshAnswerView()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	return m, tea.Batch(startStreamCmd(ctx, m.client, m.sess.History(), m.gen), m.spin.Tick)
}

func (m *Model) stopStream() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// =============================================================================
// STREAM EVENTS
// =============================================================================

// handleEvent folds one stream event. Tokens are batched for frame pacing;
// every other record type flushes the batch first so reduction order matches
// wire order.
func (m Model) handleEvent(ev wire.Event) (tea.Model, tea.Cmd) {
	m.sess.AddDropped(ev.Dropped)

	if ev.Err != nil {
		m.flushTokens()
		m.streaming = false
		m.sess.Fail(ev.Err)
		return m.finalizeProjections()
	}

	switch {
	case ev.Record.Type == wire.RecordToken:
		m.buf.Write(ev.Record.Text())
	case ev.Record.Type != "":
		m.flushTokens()
		m.sess.Apply(ev.Record)
		m.refreshAnswerView()
	}
	return m, waitForEvent(m.gen, m.events)
}

// finishTurn handles clean stream end.
func (m Model) finishTurn() (tea.Model, tea.Cmd) {
	m.flushTokens()
	m.streaming = false
	m.sess.End()
	return m.finalizeProjections()
}

// finalizeProjections parses the settled content and builds both views.
func (m Model) finalizeProjections() (tea.Model, tea.Cmd) {
	cur := m.sess.Current()
	if cur == nil || cur.Content == "" {
		m.refreshAnswerView()
		return m, nil
	}

	m.structural = docmodel.Parse(cur.Content)
	m.report = project.BuildReport(m.structural, cur.Sources)
	m.deck = project.BuildDeck(m.structural, m.sess.Question(), time.Now(), cur.Sources, cur.CitationTitles)
	m.slideIdx = 0
	m.refreshAnswerView()

	if m.cfg.UI.ThemeFromSources && len(cur.Sources) > 0 {
		return m, extractThemeCmd(m.extractor, cur.Sources, m.gen)
	}
	return m, nil
}

func (m *Model) flushTokens() {
	if text, ok := m.buf.ForceFlush(); ok {
		m.sess.Apply(wire.TokenRecord(text))
	}
}

// =============================================================================
// EXPORT COMMANDS
// =============================================================================

func (m Model) exportOptions() *export.Options {
	return &export.Options{OutputDir: m.cfg.ExportDir, Now: time.Now}
}

// exportPDFCmd renders the active projection to PDF. The rasterizer owns a
// headless browser, so it is created per export and torn down after rather
// than held for the life of the program.
func (m Model) exportPDFCmd() tea.Cmd {
	mode := m.mode
	report := m.report
	deck := m.deck
	question := m.sess.Question()
	palette := m.palette
	opts := m.exportOptions()

	return func() tea.Msg {
		r, err := export.NewRasterizer()
		if err != nil {
			return exportDoneMsg{err: err}
		}
		defer r.Close()

		var path string
		if mode == modeDeck {
			path, err = r.ExportSlides(deck, palette, opts)
		} else {
			path, err = r.ExportReport(report, question, palette, opts)
		}
		return exportDoneMsg{path: path, err: err}
	}
}

func (m Model) exportMarkdownCmd() tea.Cmd {
	report := m.report
	question := m.sess.Question()
	opts := m.exportOptions()

	return func() tea.Msg {
		path, err := export.NewMarkdownExporter(opts).Export(report, question)
		return exportDoneMsg{path: path, err: err}
	}
}

// =============================================================================
// COMPONENT FANOUT
// =============================================================================

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
