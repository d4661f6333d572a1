package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

const (
	// maxUploadBytes caps user-supplied image uploads.
	maxUploadBytes = 10 << 20

	// maxUploadDimension is the longest edge stored for a user upload.
	// Anything larger is downscaled before it hits the asset store.
	maxUploadDimension = 2000

	uploadJPEGQuality = 85
)

// UploadService validates and normalizes user-supplied images before
// handing them to the asset store. SVG uploads pass through untouched; they
// are rewritten per element at render time, not at upload time.
type UploadService struct {
	store AssetStoreInterface
}

// NewUploadService creates an UploadService.
func NewUploadService(store AssetStoreInterface) *UploadService {
	return &UploadService{store: store}
}

// allowedUploadTypes are the content types accepted from the editor's file
// picker.
var allowedUploadTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Store validates, optionally downscales and uploads one user image,
// returning its durable URL.
func (s *UploadService) Store(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}
	if len(data) > maxUploadBytes {
		return "", fmt.Errorf("upload exceeds %d bytes", maxUploadBytes)
	}
	if !allowedUploadTypes[contentType] {
		return "", fmt.Errorf("unsupported upload type %s", contentType)
	}

	if contentType != "image/svg+xml" {
		normalized, newType, err := s.normalize(data)
		if err != nil {
			return "", err
		}
		data = normalized
		contentType = newType
	}

	url, err := s.store.Upload(ctx, filename, contentType, data)
	if err != nil {
		return "", fmt.Errorf("failed to store upload %s: %w", filename, err)
	}
	return url, nil
}

// normalize decodes the raster payload and downscales it when it exceeds
// the maximum stored dimension, re-encoding as JPEG.
func (s *UploadService) normalize(data []byte) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode upload: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxUploadDimension && height <= maxUploadDimension {
		return data, detectRasterType(data), nil
	}

	// Keep aspect ratio; imaging treats a zero edge as "derive from the
	// other".
	if width >= height {
		img = imaging.Resize(img, maxUploadDimension, 0, imaging.Lanczos)
	} else {
		img = imaging.Resize(img, 0, maxUploadDimension, imaging.Lanczos)
	}
	log.Info().Int("width", width).Int("height", height).Msg("🔄 downscaling oversized upload")

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(uploadJPEGQuality)); err != nil {
		return nil, "", fmt.Errorf("failed to re-encode upload: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// detectRasterType sniffs the stored content type from magic bytes, falling
// back to PNG.
func detectRasterType(data []byte) string {
	if len(data) >= 3 && data[0] == 0xff && data[1] == 0xd8 && data[2] == 0xff {
		return "image/jpeg"
	}
	if len(data) >= 12 && string(data[8:12]) == "WEBP" {
		return "image/webp"
	}
	return "image/png"
}
