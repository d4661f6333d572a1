package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"estampa-studio/db"
	"estampa-studio/models"
)

// DesignRepository persists finished designs: the serialized elements for
// later re-editing, the snapshot URLs and the pricing selectors.
type DesignRepository struct{}

// NewDesignRepository creates a new DesignRepository
func NewDesignRepository() *DesignRepository {
	return &DesignRepository{}
}

// Ensure DesignRepository implements DesignRepositoryInterface
var _ DesignRepositoryInterface = (*DesignRepository)(nil)

// Insert stores a design submission and returns its durable identifier.
func (r *DesignRepository) Insert(ctx context.Context, design *models.DesignSubmission) (string, error) {
	elementsJSON, err := json.Marshal(design.Elements)
	if err != nil {
		return "", fmt.Errorf("failed to serialize design elements: %w", err)
	}
	snapshotsJSON, err := json.Marshal(design.Snapshots)
	if err != nil {
		return "", fmt.Errorf("failed to serialize design snapshots: %w", err)
	}

	id := uuid.NewString()
	query := `
		INSERT INTO custom_designs (id, title, color, size, thumbnail_url, snapshots, elements, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err = db.DB.ExecContext(ctx, query,
		id,
		design.Title,
		design.Color,
		design.Size,
		design.ThumbnailURL,
		snapshotsJSON,
		elementsJSON,
		design.Price,
	)
	if err != nil {
		log.Error().Err(err).Msg("❌ Error inserting custom design")
		return "", fmt.Errorf("failed to insert design: %w", err)
	}

	log.Info().Str("design", id).Msg("💾 custom design persisted")
	return id, nil
}
