package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"estampa-studio/canvas"
	"estampa-studio/models"
)

const (
	fetchTimeout = 20 * time.Second

	// maxAssetBytes caps what the loader will pull for a single asset.
	maxAssetBytes = 20 << 20
)

// AssetLoader resolves element sources into renderable bitmaps. Raster URLs
// are fetched and decoded; SVG URLs are fetched, rewritten with the
// element's overrides and rasterized. Results are cached by source plus
// overrides, so re-resolving the same art is cheap.
//
// Loads for different elements are independent and unordered; a load failure
// is logged and leaves the element without a bitmap, it never blocks the
// editor.
type AssetLoader struct {
	client *http.Client
	chrome *ChromeRasterizer

	mu       sync.Mutex
	cache    map[string]image.Image
	inflight map[string]chan struct{}
}

// NewAssetLoader creates a loader. chrome may be nil, in which case SVGs
// that the pure-Go rasterizer rejects stay blank.
func NewAssetLoader(chrome *ChromeRasterizer) *AssetLoader {
	return &AssetLoader{
		client:   &http.Client{Timeout: fetchTimeout},
		chrome:   chrome,
		cache:    map[string]image.Image{},
		inflight: map[string]chan struct{}{},
	}
}

// cacheKey identifies a resolved bitmap: the source URL plus any SVG
// overrides and the raster size they were flattened at.
func cacheKey(el *models.CanvasElement, w, h int) string {
	key := el.Src
	if el.IsSVG() {
		key = fmt.Sprintf("%s|%dx%d", key, w, h)
		if p := el.SVGProps; p != nil {
			key += "|" + p.FillColor + "|" + p.StrokeColor
			if p.StrokeWidth != nil {
				key += fmt.Sprintf("|sw=%g", *p.StrokeWidth)
			}
			if p.Opacity != nil {
				key += fmt.Sprintf("|op=%g", *p.Opacity)
			}
		}
	}
	return key
}

// Resolve returns the element's bitmap, loading it if needed. Concurrent
// resolves of the same key share one fetch.
func (l *AssetLoader) Resolve(ctx context.Context, el *models.CanvasElement, width, height int) (image.Image, error) {
	if el.Kind != models.KindImage || el.Src == "" {
		return nil, fmt.Errorf("element %s has no image source", el.ID)
	}

	key := cacheKey(el, width, height)
	for {
		l.mu.Lock()
		if img, ok := l.cache[key]; ok {
			l.mu.Unlock()
			return img, nil
		}
		if wait, ok := l.inflight[key]; ok {
			l.mu.Unlock()
			select {
			case <-wait:
				continue // re-check the cache
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		done := make(chan struct{})
		l.inflight[key] = done
		l.mu.Unlock()

		img, err := l.load(ctx, el, width, height)

		l.mu.Lock()
		delete(l.inflight, key)
		if err == nil {
			l.cache[key] = img
		}
		l.mu.Unlock()
		close(done)

		return img, err
	}
}

// Prefetch warms the cache for a freshly added element without blocking the
// caller. On completion it notifies the session, which discards the result
// if the element was deleted while the load was in flight.
func (l *AssetLoader) Prefetch(sess *canvas.Session, el models.CanvasElement, width, height int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if _, err := l.Resolve(ctx, &el, width, height); err != nil {
			log.Warn().Err(err).Str("src", el.Src).Msg("⚠️ asset prefetch failed, element renders empty")
			return
		}
		sess.NoteAssetReady(el.ID)
	}()
}

func (l *AssetLoader) load(ctx context.Context, el *models.CanvasElement, width, height int) (image.Image, error) {
	data, err := l.fetch(ctx, el.Src)
	if err != nil {
		return nil, err
	}

	if el.IsSVG() {
		markup, err := RewriteSVG(data, el.SVGProps)
		if err != nil {
			return nil, err
		}
		img, rasterErr := RasterizeSVG(markup, width, height)
		if rasterErr == nil {
			return img, nil
		}
		if l.chrome != nil {
			log.Warn().Err(rasterErr).Str("src", el.Src).Msg("🎨 falling back to headless Chrome for svg raster")
			return l.chrome.Rasterize(ctx, markup, width, height)
		}
		return nil, rasterErr
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", el.Src, err)
	}
	return img, nil
}

// fetch pulls an asset over HTTP. Requests carry no credentials (the
// equivalent of an anonymous cross-origin load) so any public art CDN works.
func (l *AssetLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid asset url %s: %w", url, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset fetch %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", url, err)
	}
	return data, nil
}
