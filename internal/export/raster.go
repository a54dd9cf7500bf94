// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/scholarlabs/scholar-tui/internal/project"
	"github.com/scholarlabs/scholar-tui/internal/theme"
)

// =============================================================================
// RASTERIZER
// =============================================================================

// CaptureScale is the device scale factor for rasterization: slides and the
// report are captured at 2x density for crisp output.
const CaptureScale = 2

// ReportBandHeight is the fixed logical band height for report pagination
// (US Letter at 96dpi, paired with ReportWidth of 816).
const ReportBandHeight = 1056

// Inches per CSS pixel at 96dpi, for PDF paper sizing.
const inchPerPx = 1.0 / 96.0

// Rasterizer drives a headless Chrome instance to rasterize projected views
// and assemble paginated PDFs. It is not safe for concurrent use; the UI
// enforces one export in flight.
type Rasterizer struct {
	browser *rod.Browser
}

// NewRasterizer launches the headless browser. The caller owns Close.
func NewRasterizer() (*Rasterizer, error) {
	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	return &Rasterizer{browser: browser}, nil
}

// Close shuts the browser down.
func (r *Rasterizer) Close() error {
	if r.browser == nil {
		return nil
	}
	return r.browser.Close()
}

// renderPage loads projection HTML into a fresh page at the given logical
// viewport, captured at CaptureScale density.
func (r *Rasterizer) renderPage(html string, width, height int) (*rod.Page, error) {
	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	cleanup := func(err error) (*rod.Page, error) {
		page.Close()
		return nil, err
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: CaptureScale,
	}); err != nil {
		return cleanup(fmt.Errorf("set viewport: %w", err))
	}
	if err := page.SetDocumentContent(html); err != nil {
		return cleanup(fmt.Errorf("set content: %w", err))
	}
	if err := page.WaitStable(300 * time.Millisecond); err != nil {
		return cleanup(fmt.Errorf("wait render: %w", err))
	}
	return page, nil
}

// =============================================================================
// SLIDE EXPORT
// =============================================================================

// ExportSlides rasterizes each slide element independently and assembles a
// landscape PDF with exactly one page per slide. Any failure aborts with no
// file written.
func (r *Rasterizer) ExportSlides(deck project.SlideDeck, palette theme.Palette, opts *Options) (string, error) {
	html, err := SlideHTML(deck, palette)
	if err != nil {
		return "", err
	}

	page, err := r.renderPage(html, SlideWidth, SlideHeight)
	if err != nil {
		return "", err
	}
	defer page.Close()

	count := deck.Count()
	pages := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		el, err := page.Element(fmt.Sprintf("#slide-%d", i))
		if err != nil {
			return "", fmt.Errorf("locate slide %d: %w", i, err)
		}
		shot, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
		if err != nil {
			return "", fmt.Errorf("rasterize slide %d: %w", i, err)
		}
		pages = append(pages, shot)
	}

	pdf, err := r.printPDF(pagesDocument(pages), float64(SlideWidth)*inchPerPx, float64(SlideHeight)*inchPerPx)
	if err != nil {
		return "", err
	}
	return writeExportFile(opts, deck.Cover.Question, ".pdf", pdf)
}

// =============================================================================
// REPORT EXPORT
// =============================================================================

// ExportReport rasterizes the full report element once as a single tall
// image and band-slices it into ceil(height/bandHeight) portrait pages.
// The band offset moves vertically only; text is never reflowed.
func (r *Rasterizer) ExportReport(view project.ReportView, question string, palette theme.Palette, opts *Options) (string, error) {
	html, err := ReportHTML(view, question, palette)
	if err != nil {
		return "", err
	}

	page, err := r.renderPage(html, ReportWidth, ReportBandHeight)
	if err != nil {
		return "", err
	}
	defer page.Close()

	shot, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return "", fmt.Errorf("rasterize report: %w", err)
	}

	tall, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return "", fmt.Errorf("decode report image: %w", err)
	}

	bands, err := encodeBands(sliceBands(tall, ReportBandHeight*CaptureScale))
	if err != nil {
		return "", err
	}

	pdf, err := r.printPDF(pagesDocument(bands), float64(ReportWidth)*inchPerPx, float64(ReportBandHeight)*inchPerPx)
	if err != nil {
		return "", err
	}
	return writeExportFile(opts, question, ".pdf", pdf)
}

// =============================================================================
// PDF ASSEMBLY
// =============================================================================

// pagesDocument embeds rasterized page images into a print document, one
// image per page in order.
func pagesDocument(pages [][]byte) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>` +
		`html, body { margin: 0; padding: 0; }` +
		`.page { page-break-after: always; }` +
		`.page:last-child { page-break-after: auto; }` +
		`.page img { display: block; width: 100%; }` +
		`</style></head><body>`)
	for _, p := range pages {
		sb.WriteString(`<div class="page"><img src="data:image/png;base64,`)
		sb.WriteString(base64.StdEncoding.EncodeToString(p))
		sb.WriteString(`"></div>`)
	}
	sb.WriteString(`</body></html>`)
	return sb.String()
}

// printPDF prints an assembled page document at the given paper size.
func (r *Rasterizer) printPDF(html string, paperWidthIn, paperHeightIn float64) ([]byte, error) {
	page, err := r.renderPage(html, SlideWidth, SlideHeight)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	zero := 0.0
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      &paperWidthIn,
		PaperHeight:     &paperHeightIn,
		MarginTop:       &zero,
		MarginBottom:    &zero,
		MarginLeft:      &zero,
		MarginRight:     &zero,
	})
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return pdf, nil
}

// =============================================================================
// BAND SLICING
// =============================================================================

// BandCount returns ceil(imageHeight / bandHeight).
func BandCount(imageHeight, bandHeight int) int {
	if imageHeight <= 0 || bandHeight <= 0 {
		return 0
	}
	return (imageHeight + bandHeight - 1) / bandHeight
}

// sliceBands cuts a tall image into same-width, fixed-height bands. The
// last band is padded with white so every page has identical geometry.
func sliceBands(src image.Image, bandHeight int) []image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	count := BandCount(height, bandHeight)

	bands := make([]image.Image, 0, count)
	for i := 0; i < count; i++ {
		band := image.NewRGBA(image.Rect(0, 0, width, bandHeight))
		draw.Draw(band, band.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(band, band.Bounds(), src, image.Pt(bounds.Min.X, bounds.Min.Y+i*bandHeight), draw.Over)
		bands = append(bands, band)
	}
	return bands
}

// encodeBands PNG-encodes each band for embedding.
func encodeBands(bands []image.Image) ([][]byte, error) {
	encoded := make([][]byte, 0, len(bands))
	for i, band := range bands {
		var buf bytes.Buffer
		if err := png.Encode(&buf, band); err != nil {
			return nil, fmt.Errorf("encode band %d: %w", i, err)
		}
		encoded = append(encoded, buf.Bytes())
	}
	return encoded, nil
}
