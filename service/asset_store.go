package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveAssetStore uploads assets to a Google Drive folder and serves them
// through Drive's public download URLs.
type DriveAssetStore struct {
	client   *drive.Service
	folderID string
}

// NewDriveAssetStore creates a DriveAssetStore instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveAssetStore(credentialsPath, folderID string) (*DriveAssetStore, error) {
	ctx := context.Background()

	// option.WithCredentialsFile automatically handles Service Account authentication
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveAssetStore{
		client:   driveService,
		folderID: folderID,
	}, nil
}

// Ensure DriveAssetStore implements AssetStoreInterface
var _ AssetStoreInterface = (*DriveAssetStore)(nil)

// Upload stores the payload in the configured folder, makes it
// world-readable and returns the public URL.
func (ds *DriveAssetStore) Upload(ctx context.Context, name string, mimeType string, data []byte) (string, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{ds.folderID},
	}

	file, err := ds.client.Files.Create(meta).
		Context(ctx).
		Media(bytes.NewReader(data)).
		Fields("id").
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to drive: %w", name, err)
	}

	// Snapshots are fetched anonymously by the storefront, so the file has
	// to be world-readable.
	_, err = ds.client.Permissions.Create(file.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to share uploaded file %s: %w", name, err)
	}

	url := fmt.Sprintf("https://drive.google.com/uc?id=%s", file.Id)
	log.Info().Str("name", name).Str("url", url).Msg("📤 asset uploaded to Drive")
	return url, nil
}
