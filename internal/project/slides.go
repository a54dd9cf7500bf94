// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package project

import (
	"time"

	"github.com/scholarlabs/scholar-tui/internal/docmodel"
)

// =============================================================================
// SLIDE DECK TYPES
// =============================================================================

// Cover is the deck's opening slide.
type Cover struct {
	Question string
	Date     string
}

// Slide is one content slide: a section title plus up to six bullets.
type Slide struct {
	Title   string
	Bullets []string
}

// SourceRef is one numbered entry on the sources slide.
type SourceRef struct {
	Index int
	Title string
	URL   string
}

// SlideDeck is the deck-shaped projection of a structural model.
// Count invariant: 1 cover + one slide per section + a sources slide iff
// the source set is non-empty.
type SlideDeck struct {
	Cover   Cover
	Content []Slide
	Sources []SourceRef // empty means no sources slide
}

// Count returns the total slide count.
func (d SlideDeck) Count() int {
	n := 1 + len(d.Content)
	if len(d.Sources) > 0 {
		n++
	}
	return n
}

// =============================================================================
// SLIDE PROJECTOR
// =============================================================================

// BuildDeck derives the slide deck: a cover carrying the triggering question
// and generation date, one slide per structural section, and a trailing
// sources slide of title-or-URL entries when sources exist.
func BuildDeck(m *docmodel.Model, question string, date time.Time, sources []string, titles map[int]string) SlideDeck {
	deck := SlideDeck{
		Cover: Cover{
			Question: question,
			Date:     date.Format("January 2, 2006"),
		},
	}

	for _, s := range m.Sections {
		deck.Content = append(deck.Content, Slide{Title: s.Title, Bullets: s.Bullets})
	}

	for i, url := range sources {
		index := i + 1
		title := titles[index]
		if title == "" {
			title = url
		}
		deck.Sources = append(deck.Sources, SourceRef{Index: index, Title: title, URL: url})
	}
	return deck
}
