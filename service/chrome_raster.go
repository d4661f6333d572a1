package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// ChromeRasterizer renders SVG markup by screenshotting it in headless
// Chrome. It exists for documents oksvg cannot handle (filters, gradients
// with href chains, embedded fonts); the pure-Go rasterizer stays the
// default.
type ChromeRasterizer struct {
	chromePath string
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// NewChromeRasterizer returns a rasterizer bound to a detected Chrome
// binary, or nil when no browser is available on this host.
func NewChromeRasterizer() *ChromeRasterizer {
	path := detectChromePath()
	if path == "" {
		log.Info().Msg("ℹ️ no Chrome/Chromium binary found, SVG fallback rasterizer disabled")
		return nil
	}
	return &ChromeRasterizer{chromePath: path}
}

// Rasterize renders the markup at the given pixel size with a transparent
// background and decodes the screenshot into a bitmap.
func (cr *ChromeRasterizer) Rasterize(ctx context.Context, markup []byte, width, height int) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(cr.chromePath),
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	// The SVG is inlined into a bare page sized exactly to the target box.
	html := fmt.Sprintf(
		`<!doctype html><html><head><style>*{margin:0;padding:0}svg{width:%dpx;height:%dpx;display:block}</style></head><body>%s</body></html>`,
		width, height, markup,
	)
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var shot []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Transparent background so the bitmap composites like any
			// other decoded image.
			return emulation.SetDefaultBackgroundColorOverride().
				WithColor(&cdp.RGBA{R: 0, G: 0, B: 0, A: 0}).Do(ctx)
		}),
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			shot, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize svg in chrome: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("failed to decode chrome screenshot: %w", err)
	}
	return img, nil
}
