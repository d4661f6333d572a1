package repository

import (
	"context"
	"fmt"

	"estampa-studio/db"
	"estampa-studio/models"
)

// CartRepository is the boundary to the cart subsystem: a design export
// finishes by inserting one line referencing the created design. The design
// is self-describing for pricing purposes, so no product SKU is carried.
type CartRepository struct{}

// NewCartRepository creates a new CartRepository
func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// Ensure CartRepository implements CartRepositoryInterface
var _ CartRepositoryInterface = (*CartRepository)(nil)

// AddLine inserts a cart line for a created design.
func (r *CartRepository) AddLine(ctx context.Context, line models.CartLine) error {
	if line.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	query := `
		INSERT INTO cart_lines (custom_design_id, quantity, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := db.DB.ExecContext(ctx, query, line.CustomProductID, line.Quantity); err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}
	return nil
}
