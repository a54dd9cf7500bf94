// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui is the bubbletea controller: it owns the session, drives the
// streaming client, batches token records for rendering, and projects
// settled answers into the report and slide views.
package ui
