package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"estampa-studio/models"
	"estampa-studio/repository"
)

// ConfigController serves the customizer's read-only configuration: the
// product/variant/view catalog, the art-asset picklist and the legacy
// template map.
type ConfigController struct {
	catalog   repository.CatalogRepositoryInterface
	templates repository.TemplateRepositoryInterface
}

// NewConfigController creates a new ConfigController
func NewConfigController(catalog repository.CatalogRepositoryInterface, templates repository.TemplateRepositoryInterface) *ConfigController {
	return &ConfigController{
		catalog:   catalog,
		templates: templates,
	}
}

// GetConfig handles GET /customizer/config
// Returns products and art categories. Empty lists are valid; the client
// falls back to legacy/static template behavior.
func (c *ConfigController) GetConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	products, err := c.catalog.GetProducts(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load products: %v", err), http.StatusInternalServerError)
		return
	}
	categories, err := c.catalog.GetArtCategories(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load art categories: %v", err), http.StatusInternalServerError)
		return
	}

	config := models.CustomizerConfig{
		Products:      products,
		ArtCategories: categories,
	}
	if config.Products == nil {
		config.Products = []models.Product{}
	}
	if config.ArtCategories == nil {
		config.ArtCategories = []models.ArtCategory{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(config); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// GetTemplates handles GET /customizer/templates
// Returns the legacy color -> side -> url map; an empty object means no
// legacy templates.
func (c *ConfigController) GetTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	templates, err := c.templates.GetLegacyTemplates(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load templates: %v", err), http.StatusInternalServerError)
		return
	}
	if templates == nil {
		templates = models.LegacyTemplates{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(templates); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
