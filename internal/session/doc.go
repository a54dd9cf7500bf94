// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session reduces a research record stream into durable conversation
// state.
//
// A Session owns the turn list for one conversation and exposes exactly one
// mutation entry point, Apply, which folds protocol records into the active
// agent message. Messages move through a small state machine
// (Empty -> Streaming -> Finalizing -> Settled); once settled, a message's
// content is frozen and never silently lost.
//
// The reducer also maintains a transient status string and a bounded status
// timeline, de-duplicates citation URLs in first-seen order, and resolves
// citation titles from the final record's trailing citation block with a
// host-derived fallback per index.
package session
