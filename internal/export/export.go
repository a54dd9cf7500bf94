// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/scholarlabs/scholar-tui/internal/util"
)

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: "./exports"
	OutputDir string

	// Now supplies timestamps for file naming; overridable in tests.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir: "./exports",
		Now:       time.Now,
	}
}

// =============================================================================
// FILE MACHINERY
// =============================================================================

// writeExportFile writes finished export content under a generated name.
// The write is atomic: a rasterization failure upstream means this is never
// called, and a filesystem failure here leaves no partial file.
func writeExportFile(opts *Options, label, ext string, content []byte) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	filename := fmt.Sprintf("%s_%s%s", sanitizeFilename(label), now().Format("20060102_150405"), ext)
	outputPath := filepath.Join(opts.OutputDir, filename)

	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return outputPath, nil
}

// sanitizeFilename removes or replaces characters that are invalid in
// filenames on Windows and Unix.
func sanitizeFilename(s string) string {
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "research"
	}
	return string(result)
}
