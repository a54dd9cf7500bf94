// scholar TUI - A terminal client for the Scholar research agent.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholarlabs/scholar-tui/internal/config"
	"github.com/scholarlabs/scholar-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	backend := flag.String("backend", "", "backend base URL (overrides config)")
	exportDir := flag.String("export-dir", "", "export output directory (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("scholar-tui %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	// Load configuration at startup; CLI flags override both the config file
	// and environment variables.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.BackendURL = *backend
	}
	if *exportDir != "" {
		cfg.ExportDir = *exportDir
	}

	p := tea.NewProgram(
		ui.NewModel(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running scholar-tui: %v\n", err)
		os.Exit(1)
	}
}
