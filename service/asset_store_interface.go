package service

import "context"

// AssetStoreInterface defines the contract for durable asset uploads: user
// images added in the editor and the per-view snapshots the export pipeline
// produces. Upload returns a durable, publicly fetchable URL.
type AssetStoreInterface interface {
	Upload(ctx context.Context, name string, mimeType string, data []byte) (string, error)
}
