// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles centralizes lipgloss styling for the TUI. A Set is rebuilt
// whenever the extracted theme palette changes, so views never hold raw
// color values.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/scholarlabs/scholar-tui/internal/theme"
)

// Adaptive base colors independent of the extracted palette.
var (
	TextPrimary = lipgloss.AdaptiveColor{Light: "#1E293B", Dark: "#E2E8F0"}
	TextMuted   = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"}
	Surface     = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#334155"}
	Rose        = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
)

// Set is the full style collection for one palette.
type Set struct {
	Title      lipgloss.Style
	Accent     lipgloss.Style
	StatusBar  lipgloss.Style
	Status     lipgloss.Style
	Timeline   lipgloss.Style
	Error      lipgloss.Style
	SlideBox   lipgloss.Style
	SlideTitle lipgloss.Style
	Bullet     lipgloss.Style
	Help       lipgloss.Style
}

// New builds a style set keyed to the palette's accent color.
func New(p theme.Palette) Set {
	accent := lipgloss.Color(p.Accent)
	return Set{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Accent: lipgloss.NewStyle().
			Foreground(accent),
		StatusBar: lipgloss.NewStyle().
			Foreground(TextMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Surface),
		Status: lipgloss.NewStyle().
			Foreground(accent).
			Italic(true),
		Timeline: lipgloss.NewStyle().
			Foreground(TextMuted),
		Error: lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true),
		SlideBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 3),
		SlideTitle: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(accent),
		Bullet: lipgloss.NewStyle().
			Foreground(TextPrimary),
		Help: lipgloss.NewStyle().
			Foreground(TextMuted).
			Faint(true),
	}
}

// GlamourStyle resolves the configured glamour style name, mapping "auto" to
// a light or dark style from the terminal background.
func GlamourStyle(configured string) string {
	if configured != "" && configured != "auto" {
		return configured
	}
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
