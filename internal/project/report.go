// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package project derives presentation views from a structural model.
//
// Both projectors are pure functions: they read the (immutable) model plus
// the turn's citation data and return value types. Re-projection never
// re-parses the document.
package project

import (
	"regexp"

	"github.com/scholarlabs/scholar-tui/internal/docmodel"
)

// =============================================================================
// REPORT VIEW TYPES
// =============================================================================

// MetricCard is one headline figure lifted from the document table.
type MetricCard struct {
	Label string
	Value string
}

// TrendPoint is one column of the revenue row. Value is only meaningful
// when HasValue is true; unparsable cells still display RawValue but are
// excluded from the chart maximum.
type TrendPoint struct {
	Label    string
	RawValue string
	Value    float64
	HasValue bool
}

// ReportView is the report-shaped projection of a structural model.
type ReportView struct {
	Executive docmodel.Section
	Metrics   []MetricCard
	Trend     []TrendPoint
	Sections  []docmodel.Section // remaining sections, executive and sources excluded
	Sources   []string
}

// TrendMax returns the largest numeric trend value, for chart scaling.
func (v ReportView) TrendMax() float64 {
	max := 0.0
	for _, p := range v.Trend {
		if p.HasValue && p.Value > max {
			max = p.Value
		}
	}
	return max
}

// =============================================================================
// REPORT PROJECTOR
// =============================================================================

var (
	executiveTitleRe = regexp.MustCompile(`(?i)^executive summary$`)
	sourcesTitleRe   = regexp.MustCompile(`(?i)^sources$`)
	metricLabelRe    = regexp.MustCompile(`(?i)revenue|margin|earnings per share|\beps\b|net income`)
	revenueLabelRe   = regexp.MustCompile(`(?i)revenue`)
)

// BuildReport derives the report view. The executive section is the one
// titled "Executive Summary" (case-insensitive) or the first section;
// remaining sections exclude it and any sources-titled section. Metric cards
// and the trend series degrade to empty when the model has no table.
func BuildReport(m *docmodel.Model, sources []string) ReportView {
	view := ReportView{Sources: sources}

	execIdx := -1
	for i, s := range m.Sections {
		if executiveTitleRe.MatchString(s.Title) {
			execIdx = i
			break
		}
	}
	if execIdx < 0 && len(m.Sections) > 0 {
		execIdx = 0
	}
	if execIdx >= 0 {
		view.Executive = m.Sections[execIdx]
	}

	for i, s := range m.Sections {
		if i == execIdx || sourcesTitleRe.MatchString(s.Title) {
			continue
		}
		view.Sections = append(view.Sections, s)
	}

	if m.Table != nil {
		view.Metrics = metricCards(m.Table)
		view.Trend = trendSeries(m.Table)
	}
	return view
}

// metricCards lifts rows whose label matches the financial-keyword pattern.
// The card value is the last column when the row has several, mirroring a
// table whose rightmost column is the most recent period.
func metricCards(table *docmodel.Table) []MetricCard {
	var cards []MetricCard
	for _, row := range table.Rows {
		if !metricLabelRe.MatchString(row.Label) || len(row.Values) == 0 {
			continue
		}
		cards = append(cards, MetricCard{
			Label: row.Label,
			Value: row.Values[len(row.Values)-1],
		})
	}
	return cards
}

// trendSeries turns the first revenue row into a label/value series, one
// point per non-label column, labeled by the matching column header.
func trendSeries(table *docmodel.Table) []TrendPoint {
	for _, row := range table.Rows {
		if !revenueLabelRe.MatchString(row.Label) {
			continue
		}
		points := make([]TrendPoint, 0, len(row.Values))
		for i, cell := range row.Values {
			point := TrendPoint{RawValue: cell}
			if i+1 < len(table.Headers) {
				point.Label = table.Headers[i+1]
			}
			point.Value, point.HasValue = ParseBillions(cell)
			points = append(points, point)
		}
		return points
	}
	return nil
}
