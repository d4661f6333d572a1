package service

import (
	"bytes"
	"context"
	"image"
	"testing"

	"github.com/disintegration/imaging"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), imaging.PNG); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestUploadStoreKeepsSmallRaster(t *testing.T) {
	store := &fakeStore{}
	svc := NewUploadService(store)

	data := encodeTestPNG(t, 100, 80)
	url, err := svc.Store(context.Background(), "art.png", "image/png", data)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if url != "https://store.example.com/art.png" {
		t.Errorf("got url %q", url)
	}
	if len(store.uploads) != 1 {
		t.Fatalf("got %d uploads, want 1", len(store.uploads))
	}
}

func TestUploadStoreDownscalesOversized(t *testing.T) {
	store := &fakeStore{}
	svc := NewUploadService(store)

	data := encodeTestPNG(t, 4000, 1000)
	if _, err := svc.Store(context.Background(), "big.png", "image/png", data); err != nil {
		t.Fatalf("Store: %v", err)
	}

	normalized, err := imaging.Decode(bytes.NewReader(store.lastData))
	if err != nil {
		t.Fatalf("decode stored upload: %v", err)
	}
	bounds := normalized.Bounds()
	if bounds.Dx() != maxUploadDimension {
		t.Errorf("got width %d, want %d", bounds.Dx(), maxUploadDimension)
	}
	if bounds.Dy() != 500 {
		t.Errorf("got height %d, aspect ratio must be preserved", bounds.Dy())
	}
	if store.lastType != "image/jpeg" {
		t.Errorf("downscaled upload must re-encode as jpeg, got %s", store.lastType)
	}
}

func TestUploadStoreSVGPassthrough(t *testing.T) {
	store := &fakeStore{}
	svc := NewUploadService(store)

	markup := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0"/></svg>`)
	if _, err := svc.Store(context.Background(), "art.svg", "image/svg+xml", markup); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !bytes.Equal(store.lastData, markup) {
		t.Error("svg uploads must pass through untouched")
	}
}

func TestUploadStoreRejections(t *testing.T) {
	svc := NewUploadService(&fakeStore{})
	ctx := context.Background()

	if _, err := svc.Store(ctx, "x", "image/png", nil); err == nil {
		t.Error("empty upload must be rejected")
	}
	if _, err := svc.Store(ctx, "x", "application/pdf", []byte("%PDF")); err == nil {
		t.Error("unsupported type must be rejected")
	}
	if _, err := svc.Store(ctx, "x", "image/png", []byte("not an image")); err == nil {
		t.Error("undecodable raster must be rejected")
	}
}

func TestDetectRasterType(t *testing.T) {
	if got := detectRasterType([]byte{0xff, 0xd8, 0xff, 0xe0}); got != "image/jpeg" {
		t.Errorf("jpeg magic = %s", got)
	}
	if got := detectRasterType([]byte("RIFF....WEBPVP8 ")); got != "image/webp" {
		t.Errorf("webp magic = %s", got)
	}
	if got := detectRasterType(encodeTestPNG(t, 1, 1)); got != "image/png" {
		t.Errorf("png = %s", got)
	}
}
