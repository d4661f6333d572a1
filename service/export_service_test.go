package service

import (
	"context"
	"fmt"
	"image"
	"testing"

	"estampa-studio/canvas"
	"estampa-studio/models"
	"estampa-studio/pricing"
)

// fakeComposer returns a tiny bitmap per view and can be told to fail.
type fakeComposer struct {
	composed []string
	failView string
}

func (f *fakeComposer) Compose(_ context.Context, _ *canvas.Session, view string) (image.Image, error) {
	if view == f.failView {
		return nil, fmt.Errorf("compose failed for %s", view)
	}
	f.composed = append(f.composed, view)
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

// fakeStore records uploads and can be told to fail.
type fakeStore struct {
	uploads  []string
	lastType string
	lastData []byte
	fail     bool
}

func (f *fakeStore) Upload(_ context.Context, name, mimeType string, data []byte) (string, error) {
	if f.fail {
		return "", fmt.Errorf("upload rejected")
	}
	f.uploads = append(f.uploads, name)
	f.lastType = mimeType
	f.lastData = data
	return "https://store.example.com/" + name, nil
}

type fakeDesigns struct {
	inserted *models.DesignSubmission
	fail     bool
}

func (f *fakeDesigns) Insert(_ context.Context, design *models.DesignSubmission) (string, error) {
	if f.fail {
		return "", fmt.Errorf("insert rejected")
	}
	f.inserted = design
	return "design-id-1", nil
}

type fakeCart struct {
	lines []models.CartLine
	fail  bool
}

func (f *fakeCart) AddLine(_ context.Context, line models.CartLine) error {
	if f.fail {
		return fmt.Errorf("cart rejected")
	}
	f.lines = append(f.lines, line)
	return nil
}

func exportEngine(t *testing.T) *pricing.Engine {
	t.Helper()
	config := &pricing.Config{
		Currency:      "INR",
		BasePrices:    map[string]int64{"regular": 899},
		DefaultBucket: "regular",
		TextSurcharge: 50,
		ImageTiers:    []pricing.ImageTier{{Name: "small", MinCoverage: 0, Surcharge: 80}},
	}
	config.ReferenceCanvas.Width = 500
	config.ReferenceCanvas.Height = 500
	engine, err := pricing.NewEngineFromConfig(config)
	if err != nil {
		t.Fatalf("NewEngineFromConfig: %v", err)
	}
	return engine
}

func exportSession() *canvas.Session {
	sess := canvas.NewSession(nil, nil, "black", "M")
	sess.Add(models.CanvasElement{Kind: models.KindText, Text: "front text", Width: 100, Height: 40})
	sess.SetActiveView("back")
	sess.Add(models.CanvasElement{Kind: models.KindImage, Src: "https://cdn/x.png", Width: 100, Height: 100})
	sess.SetActiveView("front")
	return sess
}

func newExportFixture(t *testing.T) (*ExportService, *fakeComposer, *fakeStore, *fakeDesigns, *fakeCart) {
	t.Helper()
	composer := &fakeComposer{}
	store := &fakeStore{}
	designs := &fakeDesigns{}
	cart := &fakeCart{}
	svc := NewExportService(composer, store, exportEngine(t), designs, cart)
	return svc, composer, store, designs, cart
}

func TestExportSnapshotsEveryNonEmptyView(t *testing.T) {
	svc, composer, store, designs, cart := newExportFixture(t)
	sess := exportSession()

	result, err := svc.Export(context.Background(), sess, "my design", 2)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if len(composer.composed) != 2 || composer.composed[0] != "front" || composer.composed[1] != "back" {
		t.Errorf("composed views %v, want [front back]", composer.composed)
	}
	if len(store.uploads) != 2 {
		t.Errorf("got %d uploads, want 2", len(store.uploads))
	}
	if len(result.Snapshots) != 2 {
		t.Errorf("got snapshots %v, want one per non-empty view", result.Snapshots)
	}

	// Active view is front, so its snapshot is the thumbnail.
	if result.ThumbnailURL != result.Snapshots["front"] {
		t.Errorf("thumbnail %q, want the front snapshot %q", result.ThumbnailURL, result.Snapshots["front"])
	}

	// base 899 + text 50 + image 80.
	if result.Price != 1029 {
		t.Errorf("got price %d, want 1029", result.Price)
	}

	if designs.inserted == nil {
		t.Fatal("design was not persisted")
	}
	if designs.inserted.Title != "my design" || designs.inserted.Color != "black" || designs.inserted.Size != "M" {
		t.Errorf("persisted selectors wrong: %+v", designs.inserted)
	}
	if len(designs.inserted.Elements["front"]) != 1 || len(designs.inserted.Elements["back"]) != 1 {
		t.Errorf("persisted elements wrong: %+v", designs.inserted.Elements)
	}

	if len(cart.lines) != 1 || cart.lines[0].CustomProductID != "design-id-1" || cart.lines[0].Quantity != 2 {
		t.Errorf("cart line wrong: %+v", cart.lines)
	}
	if result.CustomProductID != "design-id-1" {
		t.Errorf("got product id %q, want design-id-1", result.CustomProductID)
	}
}

func TestExportClearsSelectionFirst(t *testing.T) {
	svc, _, _, _, _ := newExportFixture(t)
	sess := exportSession()
	// The view switches in the fixture dropped the selection; re-select so
	// the pipeline has something to clear.
	if err := sess.Select(sess.ActiveElements()[0].ID); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sess.SelectedID() == "" {
		t.Fatal("fixture should start with a selection")
	}

	if _, err := svc.Export(context.Background(), sess, "d", 1); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := sess.SelectedID(); got != "" {
		t.Errorf("selection must be cleared before snapshotting, got %q", got)
	}
}

func TestExportEmptyDesignFailsBeforeNetwork(t *testing.T) {
	svc, composer, store, designs, cart := newExportFixture(t)
	sess := canvas.NewSession(nil, nil, "black", "M")

	if _, err := svc.Export(context.Background(), sess, "d", 1); err == nil {
		t.Fatal("expected validation error for empty design")
	}
	if len(composer.composed) != 0 || len(store.uploads) != 0 {
		t.Error("empty design must be rejected before composing or uploading")
	}
	if designs.inserted != nil || len(cart.lines) != 0 {
		t.Error("empty design must not be persisted")
	}
}

func TestExportThumbnailFallsBackToFirstNonEmptyView(t *testing.T) {
	svc, _, _, _, _ := newExportFixture(t)
	sess := canvas.NewSession(nil, nil, "black", "M")
	sess.SetActiveView("back")
	sess.Add(models.CanvasElement{Kind: models.KindImage, Src: "https://cdn/x.png", Width: 100, Height: 100})
	sess.SetActiveView("right")
	sess.Add(models.CanvasElement{Kind: models.KindImage, Src: "https://cdn/y.png", Width: 100, Height: 100})
	// The active view, front, stays empty.
	sess.SetActiveView("front")

	result, err := svc.Export(context.Background(), sess, "d", 1)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	// Canonical order makes back the first non-empty view.
	if result.ThumbnailURL != result.Snapshots["back"] {
		t.Errorf("thumbnail %q, want the back snapshot %q", result.ThumbnailURL, result.Snapshots["back"])
	}
}

func TestExportAbortsOnComposeFailure(t *testing.T) {
	svc, composer, _, designs, cart := newExportFixture(t)
	composer.failView = "back"
	sess := exportSession()

	if _, err := svc.Export(context.Background(), sess, "d", 1); err == nil {
		t.Fatal("expected compose failure to abort the export")
	}
	if designs.inserted != nil || len(cart.lines) != 0 {
		t.Error("failed export must not persist anything")
	}

	// The session keeps its work so the user can retry.
	if got := len(sess.Elements()["front"]); got != 1 {
		t.Errorf("session lost elements after failed export, front has %d", got)
	}
}

func TestExportAbortsOnUploadFailure(t *testing.T) {
	svc, _, store, designs, cart := newExportFixture(t)
	store.fail = true
	sess := exportSession()

	if _, err := svc.Export(context.Background(), sess, "d", 1); err == nil {
		t.Fatal("expected upload failure to abort the export")
	}
	if designs.inserted != nil || len(cart.lines) != 0 {
		t.Error("failed export must not persist anything")
	}
}

func TestExportAbortsOnCartFailure(t *testing.T) {
	svc, _, _, designs, cart := newExportFixture(t)
	cart.fail = true
	sess := exportSession()

	if _, err := svc.Export(context.Background(), sess, "d", 1); err == nil {
		t.Fatal("expected cart failure to abort the export")
	}
	if designs.inserted == nil {
		t.Error("design insert happens before the cart step")
	}
	if got := len(sess.Elements()["back"]); got != 1 {
		t.Errorf("session lost elements after failed export, back has %d", got)
	}
}

func TestExportDefaultsQuantity(t *testing.T) {
	svc, _, _, _, cart := newExportFixture(t)
	sess := exportSession()

	if _, err := svc.Export(context.Background(), sess, "d", 0); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(cart.lines) != 1 || cart.lines[0].Quantity != 1 {
		t.Errorf("zero quantity must default to 1, got %+v", cart.lines)
	}
}
