// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/scholarlabs/scholar-tui/internal/project"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders the report view as plain markdown text, the
// non-rasterized download path.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Render converts a report view to markdown.
func (e *MarkdownExporter) Render(view project.ReportView, question string, generated time.Time) []byte {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", question))
	sb.WriteString(fmt.Sprintf("*Generated %s*\n\n", generated.Format("January 2, 2006")))

	sb.WriteString(fmt.Sprintf("## %s\n\n", view.Executive.Title))
	for _, line := range view.Executive.Lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(view.Metrics) > 0 {
		sb.WriteString("## Key Metrics\n\n")
		for _, card := range view.Metrics {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", card.Label, card.Value))
		}
		sb.WriteString("\n")
	}

	for _, section := range view.Sections {
		sb.WriteString(fmt.Sprintf("## %s\n\n", section.Title))
		for _, line := range section.Lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(view.Sources) > 0 {
		sb.WriteString("## Sources\n\n")
		for i, url := range view.Sources {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, url))
		}
	}

	return []byte(sb.String())
}

// Export renders the view and writes it under the export directory.
func (e *MarkdownExporter) Export(view project.ReportView, question string) (string, error) {
	now := time.Now
	if e.options.Now != nil {
		now = e.options.Now
	}
	return writeExportFile(e.options, question, ".md", e.Render(view, question, now()))
}
