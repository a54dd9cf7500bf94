// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docmodel

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SECTION SPLITTING TESTS
// =============================================================================

func TestParse_SectionsWithImplicitSummary(t *testing.T) {
	content := "Opening remarks before any heading.\n\n" +
		"## Market Position\nStrong quarter.\n\n" +
		"## Outlook\nGuidance raised."

	model := Parse(content)
	require.Len(t, model.Sections, 3)
	assert.Equal(t, SummaryTitle, model.Sections[0].Title)
	assert.Equal(t, []string{"Opening remarks before any heading."}, model.Sections[0].Lines)
	assert.Equal(t, "Market Position", model.Sections[1].Title)
	assert.Equal(t, "Outlook", model.Sections[2].Title)
}

func TestParse_NoHeadingsBecomesSingleSummary(t *testing.T) {
	model := Parse("Just a plain paragraph. Nothing else.")
	require.Len(t, model.Sections, 1)
	assert.Equal(t, SummaryTitle, model.Sections[0].Title)
	assert.Nil(t, model.Table)
}

func TestParse_NoLeadingProseOmitsSummary(t *testing.T) {
	model := Parse("# First\ntext")
	require.Len(t, model.Sections, 1)
	assert.Equal(t, "First", model.Sections[0].Title)
}

func TestParse_HeadingTitleCleanup(t *testing.T) {
	model := Parse("## **Executive Summary** ##\ntext")
	require.Len(t, model.Sections, 1)
	assert.Equal(t, "Executive Summary", model.Sections[0].Title)
}

// =============================================================================
// TABLE EXTRACTION TESTS
// =============================================================================

func TestParse_Table(t *testing.T) {
	model := Parse("| A | B |\n|---|---|\n| x | 1 |\n| y | 2 |")

	table := model.Table
	require.NotNil(t, table)
	assert.Equal(t, []string{"A", "B"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, Row{Label: "x", Values: []string{"1"}}, table.Rows[0])
	assert.Equal(t, Row{Label: "y", Values: []string{"2"}}, table.Rows[1])
}

func TestParse_TableStopsAtNonTableLine(t *testing.T) {
	content := "| Metric | FY23 | FY24 |\n| --- | --- | --- |\n" +
		"| Revenue | $1.0B | $1.2B |\nRegular prose resumes here.\n| stray | row |"

	model := Parse(content)
	require.NotNil(t, model.Table)
	require.Len(t, model.Table.Rows, 1)
	assert.Equal(t, "Revenue", model.Table.Rows[0].Label)
	assert.Equal(t, []string{"$1.0B", "$1.2B"}, model.Table.Rows[0].Values)
}

func TestParse_OnlyFirstTableKept(t *testing.T) {
	content := "| A | B |\n|---|---|\n| x | 1 |\n\ntext\n\n| C | D |\n|---|---|\n| y | 2 |"
	model := Parse(content)
	require.NotNil(t, model.Table)
	assert.Equal(t, []string{"A", "B"}, model.Table.Headers)
}

func TestParse_PipeRowWithoutSeparatorIsNotATable(t *testing.T) {
	model := Parse("| just | some | pipes |\nno separator follows")
	assert.Nil(t, model.Table)
}

// =============================================================================
// BULLET EXTRACTION TESTS
// =============================================================================

func TestParse_BulletsFromListMarkers(t *testing.T) {
	content := "## Findings\n- first point\n* second point\n1. third point\n2) fourth point"
	model := Parse(content)
	require.Len(t, model.Sections, 1)
	assert.Equal(t,
		[]string{"first point", "second point", "third point", "fourth point"},
		model.Sections[0].Bullets)
}

func TestParse_BulletsCappedAtSix(t *testing.T) {
	var b strings.Builder
	b.WriteString("## Long\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "- point %d\n", i)
	}
	model := Parse(b.String())
	require.Len(t, model.Sections, 1)
	assert.Len(t, model.Sections[0].Bullets, MaxBullets)
}

func TestParse_BulletsFallBackToSentences(t *testing.T) {
	content := "## Prose\nFirst sentence. Second sentence. Third sentence."
	model := Parse(content)
	require.Len(t, model.Sections, 1)
	assert.Equal(t,
		[]string{"First sentence.", "Second sentence.", "Third sentence."},
		model.Sections[0].Bullets)
}

func TestParse_SentenceFallbackCappedAtSix(t *testing.T) {
	sentences := make([]string, 10)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("Sentence %d.", i)
	}
	model := Parse("## Prose\n" + strings.Join(sentences, " "))
	require.Len(t, model.Sections, 1)
	assert.Len(t, model.Sections[0].Bullets, MaxBullets)
}

func TestParse_EmptyContent(t *testing.T) {
	model := Parse("")
	assert.Empty(t, model.Sections)
	assert.Nil(t, model.Table)
}
