// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docmodel parses a settled message's text into a typed structural
// model: sections, at most one table, and per-section bullets.
//
// The grammar is a small, explicit markdown subset - heading lines, pipe
// tables with a separator row, and list-marker lines - so ambiguous inputs
// are testable cases rather than implicit fallbacks. Parsing happens once
// per settled message; both projectors consume the same cached Model.
package docmodel

import (
	"regexp"
	"strings"
)

// =============================================================================
// MODEL TYPES
// =============================================================================

// SummaryTitle is the title of the implicit section holding text that
// precedes the first heading.
const SummaryTitle = "Summary"

// MaxBullets caps the bullets extracted per section.
const MaxBullets = 6

// Section is one heading-delimited region of the document.
type Section struct {
	Title   string
	Lines   []string // raw lines, table rows excluded
	Bullets []string // extracted list items or sentence fragments, max 6
}

// Row is one table data row: the first cell as label, the rest as values.
type Row struct {
	Label  string
	Values []string
}

// Table is the first pipe table found in the document.
type Table struct {
	Headers []string
	Rows    []Row
}

// Model is the parsed decomposition of one finalized message. It is derived
// once and treated as immutable by both projectors.
type Model struct {
	Sections []Section
	Table    *Table
}

// =============================================================================
// GRAMMAR
// =============================================================================

var (
	headingRe   = regexp.MustCompile(`^\s{0,3}(#{1,6})\s+(.*?)\s*#*\s*$`)
	listItemRe  = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+?)\s*$`)
	tableRowRe  = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	separatorRe = regexp.MustCompile(`^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?\s*$`)
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	sentenceRe  = regexp.MustCompile(`\.\s+`)
)

// =============================================================================
// PARSER
// =============================================================================

// Parse builds the structural model for one document. Degradation rules:
// a document with no headings becomes a single Summary section; a document
// with no table yields a nil Table.
func Parse(content string) *Model {
	lines := strings.Split(content, "\n")

	model := &Model{}
	model.Table, lines = extractFirstTable(lines)
	model.Sections = splitSections(lines)

	for i := range model.Sections {
		model.Sections[i].Bullets = extractBullets(model.Sections[i].Lines)
	}
	return model
}

// splitSections cuts the document at heading lines. Pre-heading prose forms
// the implicit Summary section; it is omitted when empty.
func splitSections(lines []string) []Section {
	var sections []Section
	current := Section{Title: SummaryTitle}

	flush := func() {
		if current.Title != SummaryTitle || hasProse(current.Lines) {
			current.Lines = trimBlankEdges(current.Lines)
			sections = append(sections, current)
		}
	}

	for _, line := range lines {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			current = Section{Title: cleanTitle(m[2])}
			continue
		}
		current.Lines = append(current.Lines, line)
	}
	flush()
	return sections
}

// extractFirstTable scans line pairs for a header row immediately followed
// by a separator row, consumes the subsequent pipe rows, and returns the
// remaining lines with the table removed. Only the first table is kept;
// later tables stay in their section as plain lines.
func extractFirstTable(lines []string) (*Table, []string) {
	for i := 0; i+1 < len(lines); i++ {
		if !tableRowRe.MatchString(lines[i]) || !separatorRe.MatchString(lines[i+1]) {
			continue
		}

		table := &Table{Headers: splitCells(lines[i])}
		end := i + 2
		for end < len(lines) && tableRowRe.MatchString(lines[end]) {
			cells := splitCells(lines[end])
			if len(cells) > 0 {
				row := Row{Label: cells[0]}
				if len(cells) > 1 {
					row.Values = cells[1:]
				}
				table.Rows = append(table.Rows, row)
			}
			end++
		}

		rest := make([]string, 0, len(lines)-(end-i))
		rest = append(rest, lines[:i]...)
		rest = append(rest, lines[end:]...)
		return table, rest
	}
	return nil, lines
}

// splitCells parses one pipe-delimited row into trimmed cells, dropping the
// empty edge cells produced by leading/trailing pipes.
func splitCells(line string) []string {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, cleanTitle(strings.TrimSpace(p)))
	}
	return cells
}

// extractBullets prefers literal list-marker lines; when a section has none
// it falls back to splitting the prose on sentence boundaries. Both paths
// cap at MaxBullets.
func extractBullets(lines []string) []string {
	var bullets []string
	for _, line := range lines {
		if m := listItemRe.FindStringSubmatch(line); m != nil {
			bullets = append(bullets, cleanTitle(m[1]))
			if len(bullets) == MaxBullets {
				return bullets
			}
		}
	}
	if len(bullets) > 0 {
		return bullets
	}

	prose := strings.TrimSpace(strings.Join(trimBlankEdges(lines), " "))
	if prose == "" {
		return nil
	}
	for _, sentence := range sentenceRe.Split(prose, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if !strings.HasSuffix(sentence, ".") {
			sentence += "."
		}
		bullets = append(bullets, cleanTitle(sentence))
		if len(bullets) == MaxBullets {
			break
		}
	}
	return bullets
}

// =============================================================================
// HELPERS
// =============================================================================

// cleanTitle strips markdown bold wrappers.
func cleanTitle(s string) string {
	return strings.TrimSpace(boldRe.ReplaceAllString(s, "$1"))
}

func hasProse(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
