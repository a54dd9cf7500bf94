// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/scholarlabs/scholar-tui/internal/export"
	"github.com/scholarlabs/scholar-tui/internal/ui/styles"
	"github.com/scholarlabs/scholar-tui/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.statusBarView(),
		m.inputView(),
		m.helpView(),
	)
}

// =============================================================================
// ANSWER PANE
// =============================================================================

// refreshAnswerView rebuilds the viewport content for the current state.
// Streaming shows raw accumulating text; a settled turn shows the selected
// projection, with the report rendered through glamour.
func (m *Model) refreshAnswerView() {
	if !m.ready {
		return
	}

	switch {
	case m.hasAnswer() && m.mode == modeDeck:
		m.viewport.SetContent(m.slideView())
	case m.hasAnswer():
		if m.rendered == "" {
			m.rendered = m.renderReport()
		}
		m.viewport.SetContent(m.rendered)
	default:
		m.viewport.SetContent(m.streamingView())
		m.viewport.GotoBottom()
	}
}

// streamingView shows the accumulating answer plus the activity timeline.
func (m Model) streamingView() string {
	cur := m.sess.Current()
	if cur == nil {
		return m.st.Help.Render("\n  Ask a question to start a research session.\n")
	}

	var b strings.Builder
	b.WriteString(m.st.Title.Render("> "+m.sess.Question()) + "\n\n")

	for _, entry := range m.sess.Timeline {
		b.WriteString(m.st.Timeline.Render(
			fmt.Sprintf("  %s %s", entry.At.Format("15:04:05"), entry.Label)) + "\n")
	}
	if len(m.sess.Timeline) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(cur.Content)
	return b.String()
}

// renderReport draws the report projection as glamour-rendered markdown.
func (m Model) renderReport() string {
	md := export.NewMarkdownExporter(nil).Render(m.report, m.sess.Question(), time.Now())

	width := m.viewport.Width - 2
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.GlamourStyle(m.cfg.UI.GlamourStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return string(md)
	}
	out, err := renderer.Render(string(md))
	if err != nil {
		return string(md)
	}
	return out
}

// slideView draws the current slide of the deck projection.
func (m Model) slideView() string {
	var title string
	var lines []string

	switch {
	case m.slideIdx == 0:
		title = m.deck.Cover.Question
		lines = []string{"", m.st.Timeline.Render(m.deck.Cover.Date)}
	case m.slideIdx <= len(m.deck.Content):
		slide := m.deck.Content[m.slideIdx-1]
		title = slide.Title
		for _, bullet := range slide.Bullets {
			lines = append(lines, m.st.Bullet.Render("• "+bullet))
		}
	default:
		title = "Sources"
		for _, ref := range m.deck.Sources {
			label := ref.Title
			if label == "" {
				label = ref.URL
			}
			lines = append(lines, m.st.Bullet.Render(fmt.Sprintf("[%d] %s", ref.Index, label)))
		}
	}

	body := m.st.SlideTitle.Render(title) + "\n\n" + strings.Join(lines, "\n")

	boxWidth := m.viewport.Width - 6
	if boxWidth > 100 {
		boxWidth = 100
	}
	box := m.st.SlideBox.Width(boxWidth).Render(body)
	counter := m.st.Help.Render(fmt.Sprintf("slide %d/%d  ←/→ to navigate", m.slideIdx+1, m.deck.Count()))
	return lipgloss.JoinVertical(lipgloss.Left, box, counter)
}

// =============================================================================
// CHROME
// =============================================================================

func (m Model) statusBarView() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var parts []string
	switch {
	case m.streaming:
		label := m.sess.Status
		if label == "" {
			label = "researching"
		}
		parts = append(parts, m.spin.View()+m.st.Status.Render(util.TruncateWidth(label, width-16)))
	case m.exporting:
		parts = append(parts, m.spin.View()+m.st.Status.Render("exporting"))
	case m.notice != "":
		notice := util.TruncateWidth(m.notice, width-16)
		if strings.HasPrefix(notice, "export failed") {
			parts = append(parts, m.st.Error.Render(notice))
		} else {
			parts = append(parts, m.st.Accent.Render(notice))
		}
	case m.hasAnswer():
		parts = append(parts, m.st.Status.Render("done"))
	default:
		parts = append(parts, m.st.Help.Render("ready"))
	}

	if n := m.sess.DroppedRecords; n > 0 {
		parts = append(parts, m.st.Error.Render(fmt.Sprintf("%d dropped", n)))
	}

	return m.st.StatusBar.Width(width).Render(strings.Join(parts, m.st.Help.Render("  |  ")))
}

func (m Model) inputView() string {
	return m.input.View()
}

func (m Model) helpView() string {
	help := "enter: ask  tab: report/slides  ctrl+e: export pdf  ctrl+d: export md  esc: cancel  ctrl+c: quit"
	return m.st.Help.Render(help)
}
