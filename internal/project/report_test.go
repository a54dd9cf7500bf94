// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlabs/scholar-tui/internal/docmodel"
)

// =============================================================================
// NUMERIC NORMALIZATION TESTS
// =============================================================================

func TestParseBillions(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"$1.2 billion", 1.2, true},
		{"$3 trillion", 3000, true},
		{"45%", 45, true},
		{"n/a", 0, false},
		{"", 0, false},
		{"$394,328 million", 394.328, true},
		{"2.5B", 2.5, true},
		{"1.1tn", 1100, true},
		{"850M", 0.85, true},
		{"12.4", 12.4, true},
		{"-5%", -5, true},
		{"flat", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseBillions(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, tc.raw)
		}
	}
}

// =============================================================================
// REPORT PROJECTOR TESTS
// =============================================================================

func financialModel(t *testing.T) *docmodel.Model {
	t.Helper()
	return docmodel.Parse("Intro prose.\n\n" +
		"## Executive Summary\nStrong year overall.\n\n" +
		"| Metric | FY23 | FY24 |\n|---|---|---|\n" +
		"| Revenue | $1.0 billion | $1.2 billion |\n" +
		"| Gross Margin | 42% | 45% |\n" +
		"| EPS | $2.10 | n/a |\n" +
		"| Headcount | 900 | 1100 |\n\n" +
		"## Risks\n- competition\n\n" +
		"## Sources\nignored here")
}

func TestBuildReport_ExecutiveSelection(t *testing.T) {
	view := BuildReport(financialModel(t), nil)
	assert.Equal(t, "Executive Summary", view.Executive.Title)

	// Without an executive-titled section, the first section stands in.
	m := docmodel.Parse("## Overview\ntext\n\n## Detail\nmore")
	view = BuildReport(m, nil)
	assert.Equal(t, "Overview", view.Executive.Title)
}

func TestBuildReport_RemainingSectionsExcludeExecutiveAndSources(t *testing.T) {
	view := BuildReport(financialModel(t), nil)
	titles := make([]string, 0, len(view.Sections))
	for _, s := range view.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Summary", "Risks"}, titles)
}

// Only a section titled exactly "Sources" is excluded; titles that merely
// contain the word are legitimate content.
func TestBuildReport_SourcesExclusionIsExactTitle(t *testing.T) {
	m := docmodel.Parse("## Executive Summary\nFine.\n\n" +
		"## Resources\nStaffing.\n\n" +
		"## Data Sources and Methods\nSurveys.\n\n" +
		"## sources\nhttps://a.com")
	view := BuildReport(m, nil)

	titles := make([]string, 0, len(view.Sections))
	for _, s := range view.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Resources", "Data Sources and Methods"}, titles)
}

func TestBuildReport_MetricCards(t *testing.T) {
	view := BuildReport(financialModel(t), nil)
	require.Len(t, view.Metrics, 3)
	assert.Equal(t, MetricCard{Label: "Revenue", Value: "$1.2 billion"}, view.Metrics[0])
	assert.Equal(t, MetricCard{Label: "Gross Margin", Value: "45%"}, view.Metrics[1])
	assert.Equal(t, MetricCard{Label: "EPS", Value: "n/a"}, view.Metrics[2])
}

func TestBuildReport_TrendSeries(t *testing.T) {
	view := BuildReport(financialModel(t), nil)
	require.Len(t, view.Trend, 2)

	assert.Equal(t, "FY23", view.Trend[0].Label)
	assert.Equal(t, "$1.0 billion", view.Trend[0].RawValue)
	assert.True(t, view.Trend[0].HasValue)
	assert.InDelta(t, 1.0, view.Trend[0].Value, 1e-9)

	assert.Equal(t, "FY24", view.Trend[1].Label)
	assert.InDelta(t, 1.2, view.Trend[1].Value, 1e-9)
	assert.InDelta(t, 1.2, view.TrendMax(), 1e-9)
}

func TestBuildReport_UnparsableTrendCellKeepsRawValue(t *testing.T) {
	m := docmodel.Parse("| Metric | FY23 | FY24 |\n|---|---|---|\n| Revenue | n/a | $2 billion |")
	view := BuildReport(m, nil)
	require.Len(t, view.Trend, 2)
	assert.False(t, view.Trend[0].HasValue)
	assert.Equal(t, "n/a", view.Trend[0].RawValue)
	assert.InDelta(t, 2.0, view.TrendMax(), 1e-9)
}

func TestBuildReport_NoTableDegrades(t *testing.T) {
	m := docmodel.Parse("## Overview\nNo table anywhere.")
	view := BuildReport(m, []string{"https://a.com"})
	assert.Empty(t, view.Metrics)
	assert.Empty(t, view.Trend)
	assert.Equal(t, []string{"https://a.com"}, view.Sources)
}
