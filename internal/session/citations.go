// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// =============================================================================
// CITATION BLOCK GRAMMAR
// =============================================================================

// The citation grammar is deliberately small and enumerable:
//   - a "Sources" heading line (optionally a markdown heading, optionally
//     bolded, optional trailing colon)
//   - bracket-indexed title lines of the form "[3] Some Title"
//   - bare URL lines
// Anything else inside the block is ignored.
var (
	sourcesHeadingRe = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?\**\s*sources:?\s*\**\s*$`)
	citationLineRe   = regexp.MustCompile(`^\s*\[(\d+)\]\s*(.+?)\s*$`)
	urlRe            = regexp.MustCompile(`https?://\S+`)
)

// splitSourcesBlock splits content at the last trailing "Sources" heading.
// It returns the display body (heading and everything after it removed) and
// the block lines after the heading. When no heading exists, body is the
// whole content and block is empty.
func splitSourcesBlock(content string) (body string, block []string) {
	lines := strings.Split(content, "\n")
	at := -1
	for i, line := range lines {
		if sourcesHeadingRe.MatchString(line) {
			at = i
		}
	}
	if at < 0 {
		return content, nil
	}
	body = strings.TrimRight(strings.Join(lines[:at], "\n"), " \t\n")
	return body, lines[at+1:]
}

// parseCitationBlock scans block lines for URLs and bracket-indexed titles
// intermixed. URLs are returned in appearance order; titles are keyed by
// their 1-based bracket index. A title line that carries a URL inline
// contributes both.
func parseCitationBlock(block []string) (urls []string, titles map[int]string) {
	titles = make(map[int]string)
	for _, line := range block {
		if m := citationLineRe.FindStringSubmatch(line); m != nil {
			index, err := strconv.Atoi(m[1])
			if err != nil || index < 1 {
				continue
			}
			rest := m[2]
			if u := urlRe.FindString(rest); u != "" {
				urls = append(urls, trimURL(u))
				rest = strings.TrimSpace(strings.Replace(rest, u, "", 1))
				rest = strings.Trim(rest, "-–: ")
			}
			if rest != "" {
				titles[index] = rest
			}
			continue
		}
		if u := urlRe.FindString(line); u != "" {
			urls = append(urls, trimURL(u))
		}
	}
	return urls, titles
}

// trimURL strips punctuation that prose tends to glue onto a URL.
func trimURL(u string) string {
	return strings.TrimRight(u, ".,;)]}>\"'")
}

// fillTitleFallbacks ensures every source index from 1..len(urls) has a
// title, deriving missing ones from the URL's host. Indices outside that
// range are pruned: a citation index must always refer to an existing
// source, even when the block carries stray bracket lines.
func fillTitleFallbacks(titles map[int]string, urls []string) {
	for index := range titles {
		if index < 1 || index > len(urls) {
			delete(titles, index)
		}
	}
	for i := range urls {
		index := i + 1
		if titles[index] == "" {
			titles[index] = hostTitle(urls[i])
		}
	}
}

// hostTitle derives a display title from a URL's host: the domain with any
// leading "www." removed, first letter capitalized. Unparsable URLs fall
// back to the raw string.
func hostTitle(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host == "" {
		return raw
	}
	runes := []rune(host)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
