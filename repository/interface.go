package repository

import (
	"context"

	"estampa-studio/models"
)

// CatalogRepositoryInterface defines the contract for customizer catalog reads
type CatalogRepositoryInterface interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetArtCategories(ctx context.Context) ([]models.ArtCategory, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// TemplateRepositoryInterface defines the contract for legacy template reads
type TemplateRepositoryInterface interface {
	GetLegacyTemplates(ctx context.Context) (models.LegacyTemplates, error)
}

// DesignRepositoryInterface defines the contract for persisting finished designs
type DesignRepositoryInterface interface {
	Insert(ctx context.Context, design *models.DesignSubmission) (string, error)
}

// CartRepositoryInterface defines the contract for the cart subsystem boundary
type CartRepositoryInterface interface {
	AddLine(ctx context.Context, line models.CartLine) error
}
