// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package project

import (
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// NUMERIC NORMALIZATION
// =============================================================================

var numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseBillions normalizes a table cell to a "billions" unit.
//
// Currency symbols, commas, and percent signs are stripped; magnitude words
// scale the parsed number (trillion x1000, billion x1, million /1000).
// Bare numbers and percentages pass through unscaled. Cells with no parsable
// number (e.g. "n/a") return ok=false; callers keep the raw text but exclude
// the cell from numeric aggregation.
func ParseBillions(raw string) (float64, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, false
	}
	cleaned = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", "%", "").Replace(cleaned)

	match := numberRe.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}

	switch {
	case strings.Contains(cleaned, "trillion") || hasMagnitudeSuffix(cleaned, match, "tn", "t"):
		value *= 1000
	case strings.Contains(cleaned, "billion") || hasMagnitudeSuffix(cleaned, match, "bn", "b"):
		// Already in billions.
	case strings.Contains(cleaned, "million") || hasMagnitudeSuffix(cleaned, match, "mm", "m"):
		value /= 1000
	}
	return value, true
}

// hasMagnitudeSuffix reports whether the number is immediately followed by
// one of the abbreviated magnitude suffixes ("1.2b", "3 tn").
func hasMagnitudeSuffix(cleaned, match string, suffixes ...string) bool {
	i := strings.Index(cleaned, match)
	if i < 0 {
		return false
	}
	rest := strings.TrimLeft(cleaned[i+len(match):], " ")
	for _, suffix := range suffixes {
		if rest == suffix || strings.HasPrefix(rest, suffix+" ") {
			return true
		}
	}
	return false
}
