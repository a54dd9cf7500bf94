// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlabs/scholar-tui/internal/docmodel"
)

// =============================================================================
// SLIDE PROJECTOR TESTS
// =============================================================================

var deckDate = time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

func TestBuildDeck_CoverAndContent(t *testing.T) {
	m := docmodel.Parse("Summary prose.\n\n## Growth\n- up and to the right\n\n## Risks\n- churn")
	deck := BuildDeck(m, "How is the company doing?", deckDate, nil, nil)

	assert.Equal(t, "How is the company doing?", deck.Cover.Question)
	assert.Equal(t, "March 14, 2025", deck.Cover.Date)

	require.Len(t, deck.Content, 3)
	assert.Equal(t, "Summary", deck.Content[0].Title)
	assert.Equal(t, "Growth", deck.Content[1].Title)
	assert.Equal(t, []string{"up and to the right"}, deck.Content[1].Bullets)
}

// TestBuildDeck_CountInvariant verifies
// count == 1 + sectionCount + (1 if sources non-empty).
func TestBuildDeck_CountInvariant(t *testing.T) {
	m := docmodel.Parse("## A\nx\n\n## B\ny")

	deck := BuildDeck(m, "q", deckDate, nil, nil)
	assert.Equal(t, 1+2, deck.Count())

	deck = BuildDeck(m, "q", deckDate, []string{"https://a.com"}, nil)
	assert.Equal(t, 1+2+1, deck.Count())
}

func TestBuildDeck_SourcesSlideEntries(t *testing.T) {
	m := docmodel.Parse("## A\nx")
	sources := []string{"https://a.com", "https://b.com"}
	titles := map[int]string{1: "Site A"}

	deck := BuildDeck(m, "q", deckDate, sources, titles)
	require.Len(t, deck.Sources, 2)
	assert.Equal(t, SourceRef{Index: 1, Title: "Site A", URL: "https://a.com"}, deck.Sources[0])
	// Untitled entry falls back to the URL itself.
	assert.Equal(t, SourceRef{Index: 2, Title: "https://b.com", URL: "https://b.com"}, deck.Sources[1])
}

func TestBuildDeck_BulletCapFlowsThrough(t *testing.T) {
	m := docmodel.Parse("## Long\n- a\n- b\n- c\n- d\n- e\n- f\n- g\n- h")
	deck := BuildDeck(m, "q", deckDate, nil, nil)
	require.Len(t, deck.Content, 1)
	assert.Len(t, deck.Content[0].Bullets, docmodel.MaxBullets)
}
