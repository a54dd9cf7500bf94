// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// HOST SELECTION TESTS
// =============================================================================

func TestTopHost(t *testing.T) {
	cases := []struct {
		name    string
		sources []string
		want    string
	}{
		{
			"most frequent wins",
			[]string{"https://a.com/1", "https://b.com/1", "https://a.com/2"},
			"a.com",
		},
		{
			"first seen breaks ties",
			[]string{"https://b.com/1", "https://a.com/1"},
			"b.com",
		},
		{
			"www prefix folded",
			[]string{"https://www.a.com/1", "https://a.com/2", "https://b.com"},
			"a.com",
		},
		{"no parsable hosts", []string{"not a url", ""}, ""},
		{"empty", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TopHost(tc.sources))
		})
	}
}

// =============================================================================
// PALETTE TESTS
// =============================================================================

func TestFromDominant_BlendWeights(t *testing.T) {
	red := colorful.Color{R: 1, G: 0, B: 0}
	p := fromDominant(red)

	assert.Equal(t, "#ff0000", p.Accent)

	// Each tint blends toward white at its fixed weight; spot-check the
	// green channel, which starts at 0.
	soft, err := colorful.Hex(p.AccentSoft)
	require.NoError(t, err)
	assert.InDelta(t, accentSoftBlend, soft.G, 0.01)

	bg1, err := colorful.Hex(p.BG1)
	require.NoError(t, err)
	assert.InDelta(t, bg1Blend, bg1.G, 0.01)

	bg2, err := colorful.Hex(p.BG2)
	require.NoError(t, err)
	assert.InDelta(t, bg2Blend, bg2.G, 0.01)
}

func TestDominantColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			switch {
			case y == 0:
				img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255}) // skipped: white
			case y == 1:
				img.Set(x, y, color.RGBA{A: 0}) // skipped: transparent
			default:
				img.Set(x, y, color.RGBA{R: 32, G: 64, B: 200, A: 255})
			}
		}
	}

	dominant, ok := DominantColor(img)
	require.True(t, ok)
	// Quantized to 4 bits per channel, so compare coarsely.
	assert.InDelta(t, 32.0/255, dominant.R, 0.07)
	assert.InDelta(t, 200.0/255, dominant.B, 0.07)
}

func TestDominantColor_NoUsablePixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2)) // fully transparent
	_, ok := DominantColor(img)
	assert.False(t, ok)
}

// =============================================================================
// EXTRACTION TESTS
// =============================================================================

func TestExtract_UsesHostImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
			}
		}
		w.Header().Set("Content-Type", "image/png")
		require.NoError(t, png.Encode(w, img))
	}))
	defer server.Close()

	e := New()
	e.imageURL = func(host string) string { return server.URL + "/" + host }

	p := e.Extract(context.Background(), []string{"https://example.com/a"})
	assert.NotEqual(t, Default(), p)

	accent, err := colorful.Hex(p.Accent)
	require.NoError(t, err)
	assert.Greater(t, accent.R, accent.G)
}

func TestExtract_FallsBackToDefault(t *testing.T) {
	e := New()

	// No sources at all.
	assert.Equal(t, Default(), e.Extract(context.Background(), nil))

	// Fetch failure.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()
	e.imageURL = func(host string) string { return server.URL }
	assert.Equal(t, Default(), e.Extract(context.Background(), []string{"https://example.com"}))

	// Undecodable body.
	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not an image"))
	}))
	defer garbage.Close()
	e.imageURL = func(host string) string { return garbage.URL }
	assert.Equal(t, Default(), e.Extract(context.Background(), []string{"https://example.com"}))
}
