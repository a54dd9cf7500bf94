// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export turns a projected view into a downloadable document.
//
// Two paginated PDF modes exist, both driven by a headless Chrome instance
// via go-rod:
//
//   - Slide export rasterizes each slide element independently at a fixed
//     1280x720 logical size (captured at 2x density) and assembles one
//     landscape page per slide. Page count equals slide count exactly.
//
//   - Report export rasterizes the full report element once as a single
//     tall image and paginates it by band slicing: the image is cut into
//     successive same-width, fixed-height bands, one band per page, with no
//     text reflow. Page count is ceil(imageHeight / bandHeight).
//
// A markdown exporter covers the plain-text download path. Any rasterization
// failure aborts the export with no partial file written; output goes
// through an atomic temp-write-and-rename.
package export
