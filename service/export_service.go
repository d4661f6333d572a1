package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"estampa-studio/canvas"
	"estampa-studio/models"
	"estampa-studio/pricing"
	"estampa-studio/repository"
)

// ExportService runs the submit-design pipeline: snapshot every non-empty
// view, upload the snapshots, persist the design and add the cart line. Any
// step failing aborts the whole export; the session is left intact so the
// user retries without losing work.
type ExportService struct {
	snapshots SnapshotComposerInterface
	store     AssetStoreInterface
	engine    *pricing.Engine
	designs   repository.DesignRepositoryInterface
	cart      repository.CartRepositoryInterface
}

// NewExportService creates an ExportService.
func NewExportService(
	snapshots SnapshotComposerInterface,
	store AssetStoreInterface,
	engine *pricing.Engine,
	designs repository.DesignRepositoryInterface,
	cart repository.CartRepositoryInterface,
) *ExportService {
	return &ExportService{
		snapshots: snapshots,
		store:     store,
		engine:    engine,
		designs:   designs,
		cart:      cart,
	}
}

// Export submits the session's design. Views with zero elements are skipped;
// a design with no non-empty view at all is a validation error caught before
// any network call. The thumbnail is the active view's snapshot when that
// view has one, else the first non-empty view in canonical order.
func (s *ExportService) Export(ctx context.Context, sess *canvas.Session, title string, quantity int) (*models.ExportResult, error) {
	if quantity <= 0 {
		quantity = 1
	}

	// Transform-handle decorations must not appear in exported bitmaps.
	sess.ClearSelection()

	elements := sess.Elements()
	views := nonEmptyViews(elements)
	if len(views) == 0 {
		return nil, fmt.Errorf("design has no elements to export")
	}

	color, size, activeView := sess.Selectors()
	breakdown := s.engine.Quote(size, elements)

	log.Info().Str("session", sess.ID).Strs("views", views).Int64("price", breakdown.Total).Msg("📦 exporting design")

	snapshots := make(map[string]string, len(views))
	for _, view := range views {
		img, err := s.snapshots.Compose(ctx, sess, view)
		if err != nil {
			return nil, fmt.Errorf("failed to compose view %s: %w", view, err)
		}
		data, err := EncodePNG(img)
		if err != nil {
			return nil, fmt.Errorf("failed to encode view %s: %w", view, err)
		}
		name := fmt.Sprintf("design-%s-%s.png", sess.ID, view)
		url, err := s.store.Upload(ctx, name, "image/png", data)
		if err != nil {
			return nil, fmt.Errorf("failed to upload snapshot for view %s: %w", view, err)
		}
		snapshots[view] = url
	}

	thumbnail := snapshots[activeView]
	if thumbnail == "" {
		// The active view is empty: fall back deterministically to the
		// first non-empty view in canonical order.
		thumbnail = snapshots[views[0]]
	}

	submission := &models.DesignSubmission{
		Title:        title,
		Color:        color,
		Size:         size,
		ThumbnailURL: thumbnail,
		Snapshots:    snapshots,
		Elements:     elements,
		Price:        breakdown.Total,
	}

	designID, err := s.designs.Insert(ctx, submission)
	if err != nil {
		return nil, fmt.Errorf("failed to create design: %w", err)
	}

	if err := s.cart.AddLine(ctx, models.CartLine{CustomProductID: designID, Quantity: quantity}); err != nil {
		return nil, fmt.Errorf("failed to add design to cart: %w", err)
	}

	log.Info().Str("session", sess.ID).Str("design", designID).Msg("✅ design exported and added to cart")

	return &models.ExportResult{
		CustomProductID: designID,
		ThumbnailURL:    thumbnail,
		Snapshots:       snapshots,
		Price:           breakdown.Total,
	}, nil
}

// nonEmptyViews lists the views holding at least one element, canonical
// views first, extras sorted after them.
func nonEmptyViews(elements models.ElementsByView) []string {
	seen := map[string]bool{}
	var out []string
	for _, view := range canvas.DefaultViews {
		if len(elements[view]) > 0 {
			out = append(out, view)
			seen[view] = true
		}
	}
	var extra []string
	for view, seq := range elements {
		if len(seq) > 0 && !seen[view] {
			extra = append(extra, view)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
