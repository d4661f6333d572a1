package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LocalAssetStore keeps uploads on the local filesystem, served from the
// application's /uploads/ route. Used in development when Drive credentials
// are not configured.
type LocalAssetStore struct {
	dir     string
	baseURL string
}

// NewLocalAssetStore creates the upload directory if needed.
func NewLocalAssetStore(dir, baseURL string) (*LocalAssetStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalAssetStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Ensure LocalAssetStore implements AssetStoreInterface
var _ AssetStoreInterface = (*LocalAssetStore)(nil)

// Upload writes the payload under a collision-free name and returns the
// serving URL.
func (ls *LocalAssetStore) Upload(ctx context.Context, name string, mimeType string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		switch mimeType {
		case "image/png":
			ext = ".png"
		case "image/jpeg":
			ext = ".jpg"
		case "image/svg+xml":
			ext = ".svg"
		}
	}
	filename := uuid.NewString() + ext

	path := filepath.Join(ls.dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write upload %s: %w", name, err)
	}

	url := ls.baseURL + "/uploads/" + filename
	log.Info().Str("name", name).Str("url", url).Msg("📤 asset stored locally")
	return url, nil
}
