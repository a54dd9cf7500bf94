// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/scholarlabs/scholar-tui/internal/project"
	"github.com/scholarlabs/scholar-tui/internal/theme"
)

// =============================================================================
// HTML PROJECTIONS
// =============================================================================

// Fixed logical geometry for rasterization. Slides are a 1280x720 stage;
// the report is a single tall column sized for US Letter band slicing.
const (
	SlideWidth  = 1280
	SlideHeight = 720
	ReportWidth = 816
)

var slideTemplate = template.Must(template.New("slides").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: Georgia, 'Times New Roman', serif; background: #fff; }
  .slide {
    width: {{.Width}}px; height: {{.Height}}px;
    padding: 64px 80px; overflow: hidden; position: relative;
    background: linear-gradient(135deg, {{.Palette.BG1}}, {{.Palette.BG2}});
  }
  .slide h1 { font-size: 54px; color: #1a1a2e; max-width: 980px; }
  .slide h2 { font-size: 40px; color: {{.Palette.Accent}}; margin-bottom: 36px; }
  .slide .rule { width: 120px; height: 6px; background: {{.Palette.Accent}}; margin: 28px 0; }
  .slide .date { font-size: 22px; color: #555; position: absolute; bottom: 56px; }
  .slide ul { list-style: none; }
  .slide li { font-size: 26px; color: #2a2a3e; margin-bottom: 22px; padding-left: 34px; position: relative; }
  .slide li::before { content: ""; position: absolute; left: 0; top: 10px; width: 14px; height: 14px; border-radius: 3px; background: {{.Palette.Accent}}; }
  .slide .src { font-size: 20px; }
  .slide .src .url { color: #777; font-size: 16px; display: block; }
  .slide .num { color: {{.Palette.Accent}}; font-weight: bold; margin-right: 10px; }
</style></head><body>
<section class="slide" id="slide-0">
  <div class="rule"></div>
  <h1>{{.Deck.Cover.Question}}</h1>
  <div class="date">Research generated {{.Deck.Cover.Date}}</div>
</section>
{{range $i, $s := .Deck.Content}}
<section class="slide" id="slide-{{$s.Number}}">
  <h2>{{$s.Title}}</h2>
  <ul>{{range $s.Bullets}}<li>{{.}}</li>{{end}}</ul>
</section>
{{end}}
{{if .Deck.Sources}}
<section class="slide" id="slide-{{.SourcesNumber}}">
  <h2>Sources</h2>
  <ul>{{range .Deck.Sources}}
    <li class="src"><span class="num">{{.Index}}.</span>{{.Title}}<span class="url">{{.URL}}</span></li>
  {{end}}</ul>
</section>
{{end}}
</body></html>`))

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: Georgia, 'Times New Roman', serif; background: #fff; }
  #report { width: {{.Width}}px; padding: 56px 64px; background: {{.Palette.BG1}}; }
  #report h1 { font-size: 34px; color: #1a1a2e; margin-bottom: 8px; }
  #report .accent { width: 96px; height: 5px; background: {{.Palette.Accent}}; margin: 16px 0 28px; }
  #report h2 { font-size: 24px; color: {{.Palette.Accent}}; margin: 28px 0 12px; }
  #report p { font-size: 16px; line-height: 1.6; color: #2a2a3e; margin-bottom: 12px; }
  .cards { display: flex; flex-wrap: wrap; gap: 14px; margin: 18px 0; }
  .card { background: {{.Palette.AccentSoft}}; border-left: 5px solid {{.Palette.Accent}}; padding: 14px 18px; min-width: 150px; }
  .card .label { font-size: 13px; color: #555; text-transform: uppercase; }
  .card .value { font-size: 24px; color: #1a1a2e; font-weight: bold; }
  .trend { margin: 18px 0; }
  .trend .bar-row { display: flex; align-items: center; margin-bottom: 8px; }
  .trend .bar-label { width: 110px; font-size: 14px; color: #555; }
  .trend .bar { height: 20px; background: {{.Palette.Accent}}; }
  .trend .bar-value { margin-left: 10px; font-size: 14px; color: #2a2a3e; }
  .sources { margin-top: 28px; font-size: 14px; color: #555; }
  .sources li { margin-bottom: 6px; margin-left: 20px; }
</style></head><body>
<div id="report">
  <h1>{{.Question}}</h1>
  <div class="accent"></div>
  <h2>{{.View.Executive.Title}}</h2>
  {{range .View.Executive.Lines}}<p>{{.}}</p>{{end}}
  {{if .View.Metrics}}<div class="cards">
    {{range .View.Metrics}}<div class="card"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>{{end}}
  </div>{{end}}
  {{if .View.Trend}}<div class="trend">
    {{range .TrendBars}}<div class="bar-row"><div class="bar-label">{{.Label}}</div><div class="bar" style="width: {{.Percent}}%"></div><div class="bar-value">{{.RawValue}}</div></div>{{end}}
  </div>{{end}}
  {{range .View.Sections}}
    <h2>{{.Title}}</h2>
    {{range .Lines}}<p>{{.}}</p>{{end}}
  {{end}}
  {{if .View.Sources}}<div class="sources"><h2>Sources</h2><ol>
    {{range .View.Sources}}<li>{{.}}</li>{{end}}
  </ol></div>{{end}}
</div>
</body></html>`))

// numberedSlide pairs a content slide with its element index.
type numberedSlide struct {
	project.Slide
	Number int
}

// trendBar is a pre-scaled chart bar; unparsable cells get zero width but
// keep their raw value label.
type trendBar struct {
	Label    string
	RawValue string
	Percent  int
}

// SlideHTML renders the slide-deck projection. Slide elements carry ids
// slide-0..slide-N in deck order so the rasterizer can capture each
// independently.
func SlideHTML(deck project.SlideDeck, palette theme.Palette) (string, error) {
	numbered := make([]numberedSlide, len(deck.Content))
	for i, s := range deck.Content {
		numbered[i] = numberedSlide{Slide: s, Number: i + 1}
	}

	data := struct {
		Deck struct {
			Cover   project.Cover
			Content []numberedSlide
			Sources []project.SourceRef
		}
		SourcesNumber int
		Palette       theme.Palette
		Width, Height int
	}{
		SourcesNumber: 1 + len(deck.Content),
		Palette:       palette,
		Width:         SlideWidth,
		Height:        SlideHeight,
	}
	data.Deck.Cover = deck.Cover
	data.Deck.Content = numbered
	data.Deck.Sources = deck.Sources

	var sb strings.Builder
	if err := slideTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render slide html: %w", err)
	}
	return sb.String(), nil
}

// ReportHTML renders the report projection as one tall column.
func ReportHTML(view project.ReportView, question string, palette theme.Palette) (string, error) {
	max := view.TrendMax()
	bars := make([]trendBar, 0, len(view.Trend))
	for _, p := range view.Trend {
		bar := trendBar{Label: p.Label, RawValue: p.RawValue}
		if p.HasValue && max > 0 && p.Value > 0 {
			bar.Percent = int(p.Value / max * 60)
		}
		bars = append(bars, bar)
	}

	data := struct {
		View      project.ReportView
		TrendBars []trendBar
		Question  string
		Palette   theme.Palette
		Width     int
	}{view, bars, question, palette, ReportWidth}

	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return sb.String(), nil
}
