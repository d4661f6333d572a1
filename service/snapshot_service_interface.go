package service

import (
	"context"
	"image"

	"estampa-studio/canvas"
)

// SnapshotComposerInterface defines the contract for flattening one session
// view into a full-resolution bitmap.
type SnapshotComposerInterface interface {
	Compose(ctx context.Context, sess *canvas.Session, view string) (image.Image, error)
}
