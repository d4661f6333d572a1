package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"estampa-studio/canvas"
	"estampa-studio/models"
	"estampa-studio/pricing"
	"estampa-studio/repository"
	"estampa-studio/service"
)

// prefetchRasterSize is the flatten size used when warming an element's SVG
// bitmap before its exact snapshot size is known.
const prefetchRasterSize = 512

// SessionController exposes customization sessions over HTTP: the element
// model operations, the pointer/keyboard event surface and the export
// trigger. Every mutating endpoint answers with the refreshed session view
// so the client re-renders from server truth.
type SessionController struct {
	manager   *canvas.Manager
	catalog   repository.CatalogRepositoryInterface
	templates repository.TemplateRepositoryInterface
	loader    *service.AssetLoader
	engine    *pricing.Engine
	export    *service.ExportService
}

// NewSessionController creates a new SessionController
func NewSessionController(
	manager *canvas.Manager,
	catalog repository.CatalogRepositoryInterface,
	templates repository.TemplateRepositoryInterface,
	loader *service.AssetLoader,
	engine *pricing.Engine,
	export *service.ExportService,
) *SessionController {
	return &SessionController{
		manager:   manager,
		catalog:   catalog,
		templates: templates,
		loader:    loader,
		engine:    engine,
		export:    export,
	}
}

type createSessionRequest struct {
	ProductID int64  `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// Create handles POST /customizer/sessions
func (c *SessionController) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	var product *models.Product
	if req.ProductID != 0 {
		p, err := c.catalog.GetProductByID(ctx, req.ProductID)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to load product: %v", err), http.StatusNotFound)
			return
		}
		product = p
	}

	legacy, err := c.templates.GetLegacyTemplates(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load templates: %v", err), http.StatusInternalServerError)
		return
	}

	sess := canvas.NewSession(product, legacy, req.Color, req.Size)
	c.manager.Put(sess)
	c.respondView(w, sess)
}

// Get handles GET /customizer/sessions/{id}
func (c *SessionController) Get(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := c.manager.Get(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	c.respondView(w, sess)
}

// Delete handles DELETE /customizer/sessions/{id}
func (c *SessionController) Delete(w http.ResponseWriter, r *http.Request, sessionID string) {
	c.manager.Delete(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// AddElement handles POST /customizer/sessions/{id}/elements
// The body is a CanvasElement; id assignment and selection happen here.
func (c *SessionController) AddElement(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := c.manager.Get(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var el models.CanvasElement
	if err := json.NewDecoder(r.Body).Decode(&el); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if el.Kind != models.KindImage && el.Kind != models.KindText {
		http.Error(w, "type must be image or text", http.StatusBadRequest)
		return
	}
	if el.Kind == models.KindImage && el.Src == "" {
		http.Error(w, "image elements require src", http.StatusBadRequest)
		return
	}

	added := sess.Add(el)
	if added.Kind == models.KindImage {
		// Fire-and-forget bitmap warmup; completion is discarded if the
		// element is deleted first.
		c.loader.Prefetch(sess, added, prefetchRasterSize, prefetchRasterSize)
	}
	c.respondView(w, sess)
}

// UpdateElement handles PUT/PATCH /customizer/sessions/{id}/elements/{elemId}
func (c *SessionController) UpdateElement(w http.ResponseWriter, r *http.Request, sessionID, elementID string) {
	sess, err := c.manager.Get(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var patch models.ElementPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := sess.Update(elementID, patch); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	c.respondView(w, sess)
}

// RemoveElement handles DELETE /customizer/sessions/{id}/elements/{elemId}
func (c *SessionController) RemoveElement(w http.ResponseWriter, r *http.Request, sessionID, elementID string) {
	sess, err := c.manager.Get(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	sess.Remove(elementID)
	c.respondView(w, sess)
}

type sessionEvent struct {
	Type            string  `json:"type"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Key             string  `json:"key"`
	EditableFocused bool    `json:"editableFocused"`
}

// HandleEvent handles POST /customizer/sessions/{id}/events
// Feeds one pointer or keyboard event through the interaction state machine.
func (c *SessionController) HandleEvent(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := c.manager.Get(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var ev sessionEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch ev.Type {
	case "pointerdown":
		sess.PointerDown(ev.X, ev.Y)
	case "pointermove":
		sess.PointerMove(ev.X, ev.Y)
	case "pointerup":
		sess.PointerUp()
	case "keydown":
		sess.KeyDown(ev.Key, ev.EditableFocused)
	default:
		http.Error(w, fmt.Sprintf("unknown event type %q", ev.Type), http.StatusBadRequest)
		return
	}
	c.respondView(w, sess)
}

type selectorRequest struct {
	View      string `json:"view"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	ProductID int64  `json:"productId"`
}

// SetView handles POST /customizer/sessions/{id}/view
func (c *SessionController) SetView(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, req, ok := c.sessionAndSelector(w, r, sessionID)
	if !ok {
		return
	}
	if req.View == "" {
		http.Error(w, "view is required", http.StatusBadRequest)
		return
	}
	sess.SetActiveView(req.View)
	c.respondView(w, sess)
}

// SetColor handles POST /customizer/sessions/{id}/color
func (c *SessionController) SetColor(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, req, ok := c.sessionAndSelector(w, r, sessionID)
	if !ok {
		return
	}
	if req.Color == "" {
		http.Error(w, "color is required", http.StatusBadRequest)
		return
	}
	sess.SetColor(req.Color)
	c.respondView(w, sess)
}

// SetSize handles POST /customizer/sessions/{id}/size
func (c *SessionController) SetSize(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, req, ok := c.sessionAndSelector(w, r, sessionID)
	if !ok {
		return
	}
	if req.Size == "" {
		http.Error(w, "size is required", http.StatusBadRequest)
		return
	}
	sess.SetSize(req.Size)
	c.respondView(w, sess)
}

// SetProduct handles POST /customizer/sessions/{id}/product
// Switching product resets the color to the product's first variant.
func (c *SessionController) SetProduct(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, req, ok := c.sessionAndSelector(w, r, sessionID)
	if !ok {
		return
	}
	product, err := c.catalog.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load product: %v", err), http.StatusNotFound)
		return
	}
	sess.SetProduct(product)
	c.respondView(w, sess)
}

type exportRequest struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// Export handles POST /customizer/sessions/{id}/export
// Runs the snapshot/upload/persist/cart pipeline. Failures leave the
// session untouched so the user can retry.
func (c *SessionController) Export(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := c.manager.Get(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := c.export.Export(r.Context(), sess, req.Title, req.Quantity)
	if err != nil {
		http.Error(w, fmt.Sprintf("Export failed: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (c *SessionController) sessionAndSelector(w http.ResponseWriter, r *http.Request, sessionID string) (*canvas.Session, selectorRequest, bool) {
	sess, err := c.manager.Get(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, selectorRequest{}, false
	}
	var req selectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, selectorRequest{}, false
	}
	return sess, req, true
}

// respondView assembles the session echo: selectors, derived color/side
// lists, the resolved template, the active view's elements and the price
// recomputed from current state.
func (c *SessionController) respondView(w http.ResponseWriter, sess *canvas.Session) {
	color, size, view := sess.Selectors()
	product := sess.Product()
	legacy := sess.LegacyTemplates()

	breakdown := c.engine.Quote(size, sess.Elements())

	sv := models.SessionView{
		SessionID:       sess.ID,
		Color:           color,
		Size:            size,
		ActiveView:      view,
		TemplateURL:     service.ResolveTemplate(product, legacy, color, view),
		AvailableColors: service.AvailableColors(product, legacy),
		AvailableSides:  service.AvailableSides(product, legacy, color),
		Elements:        sess.ActiveElements(),
		SelectedID:      sess.SelectedID(),
		Price:           breakdown.Total,
		PriceFormatted:  c.engine.FormatAmount(breakdown.Total),
		Breakdown:       breakdown,
	}
	if product != nil {
		sv.ProductID = product.ID
		sv.ProductName = product.Name
	}
	if sv.Elements == nil {
		sv.Elements = []models.CanvasElement{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sv); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
