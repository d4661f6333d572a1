package repository

import (
	"context"
	"fmt"

	"estampa-studio/db"
	"estampa-studio/models"
)

// TemplateRepository reads the legacy per-color template map kept for
// products that predate the variant/view catalog.
type TemplateRepository struct{}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{}
}

// Ensure TemplateRepository implements TemplateRepositoryInterface
var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)

// GetLegacyTemplates returns the color -> side -> url map. An empty table is
// valid and yields an empty map.
func (r *TemplateRepository) GetLegacyTemplates(ctx context.Context) (models.LegacyTemplates, error) {
	query := `
		SELECT color, side, image_url
		FROM legacy_templates
		ORDER BY color ASC, side ASC
	`

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy templates: %w", err)
	}
	defer rows.Close()

	templates := models.LegacyTemplates{}
	for rows.Next() {
		var color, side, url string
		if err := rows.Scan(&color, &side, &url); err != nil {
			return nil, fmt.Errorf("failed to scan legacy template row: %w", err)
		}
		if templates[color] == nil {
			templates[color] = map[string]string{}
		}
		templates[color][side] = url
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate legacy template rows: %w", err)
	}

	return templates, nil
}
