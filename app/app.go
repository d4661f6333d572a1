package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"estampa-studio/app/controller"
	"estampa-studio/app/router"
	"estampa-studio/canvas"
	"estampa-studio/db"
	"estampa-studio/pricing"
	"estampa-studio/repository"
	"estampa-studio/service"
)

// Initialize initializes the application
func Initialize() error {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Pricing engine from JSON config
	pricingConfig := os.Getenv("PRICING_CONFIG")
	if pricingConfig == "" {
		pricingConfig = "config/pricing.json"
	}
	engine, err := pricing.NewEngine(pricingConfig)
	if err != nil {
		return err
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Asset store: Google Drive when credentials are configured, local disk
	// otherwise (development).
	var store service.AssetStoreInterface
	uploadDir := ""
	credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	folderID := os.Getenv("DRIVE_UPLOAD_FOLDER_ID")
	if credentialsPath != "" && folderID != "" {
		driveStore, err := service.NewDriveAssetStore(credentialsPath, folderID)
		if err != nil {
			return err
		}
		store = driveStore
	} else {
		uploadDir = os.Getenv("UPLOAD_DIR")
		if uploadDir == "" {
			uploadDir = "uploads"
		}
		localStore, err := service.NewLocalAssetStore(uploadDir, baseURL)
		if err != nil {
			return err
		}
		store = localStore
		log.Info().Str("dir", uploadDir).Msg("ℹ️ Drive credentials not configured, storing assets locally")
	}

	// Rendering pipeline
	chrome := service.NewChromeRasterizer()
	loader := service.NewAssetLoader(chrome)
	fonts := service.NewFontLibrary(envOr("FONTS_DIR", "fonts"))
	snapshots := service.NewSnapshotService(loader, fonts, baseURL)

	// Repositories
	catalogRepo := repository.NewCatalogRepository()
	templateRepo := repository.NewTemplateRepository()
	designRepo := repository.NewDesignRepository()
	cartRepo := repository.NewCartRepository()

	// Services
	uploadService := service.NewUploadService(store)
	exportService := service.NewExportService(snapshots, store, engine, designRepo, cartRepo)

	// Session store
	manager := canvas.NewManager(canvas.DefaultSessionTTL)

	// Create controllers
	controllers := &router.Controllers{
		Config:  controller.NewConfigController(catalogRepo, templateRepo),
		Upload:  controller.NewUploadController(uploadService),
		Session: controller.NewSessionController(manager, catalogRepo, templateRepo, loader, engine, exportService),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers, uploadDir)

	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
