// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme derives a display palette from a turn's citation sources.
//
// Extraction is strictly best-effort: it fetches a small brand image for the
// most frequent source host, samples its dominant color, and blends three
// tints toward white. Any failure along the way (no host, fetch failure,
// decode failure) yields the default palette. The extractor runs as an
// independent task and writes only to the UI's theme slot, so it can never
// block or corrupt message state.
package theme

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"strings"
	"time"

	// Favicon services answer with PNG, JPEG, or GIF depending on the site.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/lucasb-eyer/go-colorful"
)

// =============================================================================
// PALETTE
// =============================================================================

// Palette is the 4-color theme applied to views and exports. Colors are hex
// strings ("#rrggbb").
type Palette struct {
	Accent     string
	AccentSoft string
	BG1        string
	BG2        string
}

// Default returns the fixed fallback palette, applied until (or unless)
// extraction succeeds.
func Default() Palette {
	return Palette{
		Accent:     "#6366F1",
		AccentSoft: "#E0E7FF",
		BG1:        "#F8FAFC",
		BG2:        "#EEF2FF",
	}
}

// Tint weights toward white for the three derived colors.
const (
	accentSoftBlend = 0.85
	bg1Blend        = 0.95
	bg2Blend        = 0.90
)

// fromDominant builds the palette from one dominant color.
func fromDominant(dominant colorful.Color) Palette {
	white := colorful.Color{R: 1, G: 1, B: 1}
	return Palette{
		Accent:     dominant.Hex(),
		AccentSoft: dominant.BlendRgb(white, accentSoftBlend).Hex(),
		BG1:        dominant.BlendRgb(white, bg1Blend).Hex(),
		BG2:        dominant.BlendRgb(white, bg2Blend).Hex(),
	}
}

// =============================================================================
// EXTRACTOR
// =============================================================================

// FetchTimeout bounds the single image fetch; extraction gives up rather
// than lingering.
const FetchTimeout = 5 * time.Second

// Extractor derives palettes from source lists. The zero value is not
// usable; construct with New.
type Extractor struct {
	httpClient *http.Client
	imageURL   func(host string) string
}

// New creates an extractor using the Google favicon service for host images.
func New() *Extractor {
	return &Extractor{
		httpClient: &http.Client{Timeout: FetchTimeout},
		imageURL: func(host string) string {
			return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(host) + "&sz=64"
		},
	}
}

// Extract derives a palette for the given source URLs. On any failure it
// returns the default palette and a nil error: theme extraction is cosmetic
// and never surfaces as a user-visible failure.
func (e *Extractor) Extract(ctx context.Context, sources []string) Palette {
	host := TopHost(sources)
	if host == "" {
		return Default()
	}

	img, err := e.fetchImage(ctx, e.imageURL(host))
	if err != nil {
		return Default()
	}

	dominant, ok := DominantColor(img)
	if !ok {
		return Default()
	}
	return fromDominant(dominant)
}

// TopHost returns the most frequent URL host among the sources, first-seen
// order breaking ties. Returns "" when no source has a parsable host.
func TopHost(sources []string) string {
	counts := make(map[string]int)
	var order []string
	for _, raw := range sources {
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			continue
		}
		host := strings.TrimPrefix(u.Hostname(), "www.")
		if counts[host] == 0 {
			order = append(order, host)
		}
		counts[host]++
	}

	best, bestCount := "", 0
	for _, host := range order {
		if counts[host] > bestCount {
			best, bestCount = host, counts[host]
		}
	}
	return best
}

// fetchImage loads and decodes one image over HTTP.
func (e *Extractor) fetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned %d", resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	return img, err
}

// =============================================================================
// COLOR SAMPLING
// =============================================================================

// DominantColor samples the most frequent quantized color in an image,
// skipping transparent and near-white/near-black pixels that would wash the
// palette out. ok is false when no usable pixel exists.
func DominantColor(img image.Image) (colorful.Color, bool) {
	bounds := img.Bounds()
	counts := make(map[uint32]int)
	best := uint32(0)
	bestCount := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			r8, g8, b8 := r>>8, g>>8, b>>8
			if isWashedOut(r8, g8, b8) {
				continue
			}
			// Quantize to 4 bits per channel so anti-aliased neighbors pool.
			key := (r8 >> 4 << 8) | (g8 >> 4 << 4) | (b8 >> 4)
			counts[key]++
			if counts[key] > bestCount {
				best, bestCount = key, counts[key]
			}
		}
	}

	if bestCount == 0 {
		return colorful.Color{}, false
	}
	return colorful.Color{
		R: float64(best>>8&0xF) / 15,
		G: float64(best>>4&0xF) / 15,
		B: float64(best&0xF) / 15,
	}, true
}

// isWashedOut reports whether a pixel is too close to white or black to be
// a useful accent.
func isWashedOut(r, g, b uint32) bool {
	if r > 0xF0 && g > 0xF0 && b > 0xF0 {
		return true
	}
	return r < 0x10 && g < 0x10 && b < 0x10
}
