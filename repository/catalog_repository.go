package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"estampa-studio/db"
	"estampa-studio/models"
)

// CatalogRepository handles database reads for the customizer catalog:
// products with their color variants and per-side template views, and the
// stock-art categories the picker shows.
type CatalogRepository struct{}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// GetProducts retrieves all active customizable products with variants and views
func (r *CatalogRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.base_price,
			v.color_name,
			COALESCE(v.color_hex, '') as color_hex,
			w.side,
			w.image_url
		FROM products p
		INNER JOIN product_variants v ON v.product_id = p.id
		INNER JOIN variant_views w ON w.variant_id = v.id
		WHERE p.is_active = true
		ORDER BY p.id ASC, v.position ASC, w.position ASC
	`

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("❌ Error querying customizable products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var (
			id                  int64
			name                string
			basePrice           int64
			colorName, colorHex string
			side, imageURL      string
		)
		if err := rows.Scan(&id, &name, &basePrice, &colorName, &colorHex, &side, &imageURL); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}

		// Rows arrive ordered, so products and variants can be appended as
		// their first row shows up.
		if len(products) == 0 || products[len(products)-1].ID != id {
			products = append(products, models.Product{ID: id, Name: name, BasePrice: basePrice})
		}
		p := &products[len(products)-1]
		if len(p.Variants) == 0 || p.Variants[len(p.Variants)-1].ColorName != colorName {
			p.Variants = append(p.Variants, models.Variant{ColorName: colorName, ColorHex: colorHex})
		}
		v := &p.Variants[len(p.Variants)-1]
		v.Views = append(v.Views, models.View{Side: side, ImageURL: imageURL})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}

	return products, nil
}

// GetProductByID retrieves one product with variants and views
func (r *CatalogRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	products, err := r.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %d not found", id)
}

// GetArtCategories retrieves the stock-art catalog grouped by category
func (r *CatalogRepository) GetArtCategories(ctx context.Context) ([]models.ArtCategory, error) {
	query := `
		SELECT
			c.id,
			c.name,
			a.name as asset_name,
			a.url
		FROM art_categories c
		INNER JOIN art_assets a ON a.category_id = c.id
		WHERE c.is_active = true
		  AND a.is_active = true
		ORDER BY c.position ASC, a.position ASC
	`

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("❌ Error querying art categories")
		return nil, fmt.Errorf("failed to query art categories: %w", err)
	}
	defer rows.Close()

	var categories []models.ArtCategory
	for rows.Next() {
		var (
			id             int64
			name           string
			assetName, url string
		)
		if err := rows.Scan(&id, &name, &assetName, &url); err != nil {
			return nil, fmt.Errorf("failed to scan art asset row: %w", err)
		}
		if len(categories) == 0 || categories[len(categories)-1].ID != id {
			categories = append(categories, models.ArtCategory{ID: id, Name: name})
		}
		c := &categories[len(categories)-1]
		c.Assets = append(c.Assets, models.Asset{Name: assetName, URL: url})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate art asset rows: %w", err)
	}

	return categories, nil
}
