package canvas

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"estampa-studio/models"
)

// DefaultViews is the canonical view ordering. It doubles as the
// deterministic priority order for the export thumbnail fallback.
var DefaultViews = []string{"front", "back", "left", "right"}

// Session holds one customization session: the per-view element sequences,
// the selection, the active selectors and the in-flight pointer gesture.
// All mutation goes through Add/Update/Remove (or the pointer/key event
// methods, which call them); nothing else touches the sequences, including
// asset-load completions.
type Session struct {
	ID string

	mu sync.Mutex

	product  *models.Product
	legacy   models.LegacyTemplates
	color    string
	size     string
	active   string
	elements models.ElementsByView
	selected string

	gesture pointerState

	// assetsReady marks elements whose bitmap has resolved. Load completions
	// for elements that have since been removed are discarded here.
	assetsReady map[string]bool

	lastTouch time.Time
}

// NewSession creates an empty session for the given selectors. A nil product
// falls back to legacy templates or static paths, mirroring the resolver.
func NewSession(product *models.Product, legacy models.LegacyTemplates, color, size string) *Session {
	if product != nil && color == "" && len(product.Variants) > 0 {
		color = product.Variants[0].ColorName
	}
	if size == "" {
		size = "M"
	}
	return &Session{
		ID:          uuid.NewString(),
		product:     product,
		legacy:      legacy,
		color:       color,
		size:        size,
		active:      DefaultViews[0],
		elements:    models.ElementsByView{},
		assetsReady: map[string]bool{},
		lastTouch:   time.Now(),
	}
}

// Touch refreshes the session's idle timer.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastTouch = time.Now()
	s.mu.Unlock()
}

// IdleSince returns the time of the last interaction.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouch
}

// Product returns the session's product, which may be nil.
func (s *Session) Product() *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.product
}

// LegacyTemplates returns the legacy color/side template map.
func (s *Session) LegacyTemplates() models.LegacyTemplates {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.legacy
}

// Selectors returns the active (color, size, view) triple.
func (s *Session) Selectors() (color, size, view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color, s.size, s.active
}

// SelectedID returns the selected element id, or "".
func (s *Session) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// ActiveElements returns a copy of the active view's sequence in z-order.
func (s *Session) ActiveElements() []models.CanvasElement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CanvasElement(nil), s.elements[s.active]...)
}

// Elements returns a deep copy of every view's sequence.
func (s *Session) Elements() models.ElementsByView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyElementsLocked()
}

func (s *Session) copyElementsLocked() models.ElementsByView {
	out := make(models.ElementsByView, len(s.elements))
	for view, seq := range s.elements {
		out[view] = append([]models.CanvasElement(nil), seq...)
	}
	return out
}

// Add appends an element to the active view and makes it the selection.
// A missing id is assigned; geometry is clamped to the minimum box.
func (s *Session) Add(el models.CanvasElement) models.CanvasElement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(el)
}

func (s *Session) addLocked(el models.CanvasElement) models.CanvasElement {
	if el.ID == "" {
		el.ID = uuid.NewString()
	}
	if el.Width < MinElementSize {
		el.Width = MinElementSize
	}
	if el.Height < MinElementSize {
		el.Height = MinElementSize
	}
	s.elements[s.active] = append(s.elements[s.active], el)
	s.selected = el.ID
	return el
}

// Update merges a patch into the element with the given id in the active
// view. Fields absent from the patch are preserved. Width/height are clamped
// to the minimum box.
func (s *Session) Update(id string, patch models.ElementPatch) (models.CanvasElement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, patch)
}

func (s *Session) updateLocked(id string, patch models.ElementPatch) (models.CanvasElement, error) {
	seq := s.elements[s.active]
	for i := range seq {
		if seq[i].ID != id {
			continue
		}
		el := seq[i]
		applyPatch(&el, patch)
		if el.Width < MinElementSize {
			el.Width = MinElementSize
		}
		if el.Height < MinElementSize {
			el.Height = MinElementSize
		}
		seq[i] = el
		return el, nil
	}
	return models.CanvasElement{}, fmt.Errorf("element %s not found in view %s", id, s.active)
}

// replaceLocked swaps in a fully formed element value, used by gesture moves.
func (s *Session) replaceLocked(el models.CanvasElement) {
	seq := s.elements[s.active]
	for i := range seq {
		if seq[i].ID == el.ID {
			seq[i] = el
			return
		}
	}
}

// Remove filters the element out of the active view. Removing the selected
// element clears the selection. Any in-flight asset load for it becomes an
// orphan and is discarded on completion.
func (s *Session) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *Session) removeLocked(id string) {
	seq := s.elements[s.active]
	out := seq[:0]
	for _, el := range seq {
		if el.ID != id {
			out = append(out, el)
		}
	}
	if len(out) == 0 {
		delete(s.elements, s.active)
	} else {
		s.elements[s.active] = out
	}
	delete(s.assetsReady, id)
	if s.selected == id {
		s.selected = ""
	}
}

// Select makes the element the exclusive selection. It must belong to the
// active view.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range s.elements[s.active] {
		if el.ID == id {
			s.selected = id
			return nil
		}
	}
	return fmt.Errorf("element %s not found in view %s", id, s.active)
}

// ClearSelection drops the selection. The export pipeline calls this first
// so transform-handle decorations never reach a snapshot.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selected = ""
	s.gesture = pointerState{}
	s.mu.Unlock()
}

// SetActiveView switches the visible garment view. Selection never crosses
// views; other views' sequences are untouched.
func (s *Session) SetActiveView(view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if view == s.active {
		return
	}
	s.active = view
	s.selected = ""
	s.gesture = pointerState{}
}

// SetProduct switches the product and resets the color to the product's
// first variant. The active view is kept; the resolver falls through when it
// is unavailable for the new product.
func (s *Session) SetProduct(p *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.product = p
	if p != nil && len(p.Variants) > 0 {
		s.color = p.Variants[0].ColorName
	}
}

// SetColor switches the garment color without resetting the active view.
func (s *Session) SetColor(color string) {
	s.mu.Lock()
	s.color = color
	s.mu.Unlock()
}

// SetSize switches the garment size.
func (s *Session) SetSize(size string) {
	s.mu.Lock()
	s.size = size
	s.mu.Unlock()
}

// NoteAssetReady records that an element's bitmap resolved. Completions for
// elements no longer present in any view are discarded so a delete cannot be
// resurrected by a slow load.
func (s *Session) NoteAssetReady(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seq := range s.elements {
		for _, el := range seq {
			if el.ID == id {
				s.assetsReady[id] = true
				return
			}
		}
	}
	log.Debug().Str("element", id).Msg("🗑️ discarding asset completion for removed element")
}

// AssetReady reports whether an element's bitmap has resolved.
func (s *Session) AssetReady(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assetsReady[id]
}

// applyPatch merges the present fields of a patch into an element copy.
func applyPatch(el *models.CanvasElement, p models.ElementPatch) {
	if p.X != nil {
		el.X = *p.X
	}
	if p.Y != nil {
		el.Y = *p.Y
	}
	if p.Width != nil {
		el.Width = *p.Width
	}
	if p.Height != nil {
		el.Height = *p.Height
	}
	if p.Rotation != nil {
		el.Rotation = *p.Rotation
	}
	if p.Src != nil {
		el.Src = *p.Src
	}
	if p.SVGProps != nil {
		props := *p.SVGProps
		el.SVGProps = &props
	}
	if p.Text != nil {
		el.Text = *p.Text
	}
	if p.FontSize != nil {
		el.FontSize = *p.FontSize
	}
	if p.FontFamily != nil {
		el.FontFamily = *p.FontFamily
	}
	if p.FontStyle != nil {
		el.FontStyle = *p.FontStyle
	}
	if p.Fill != nil {
		el.Fill = *p.Fill
	}
	if p.BackgroundColor != nil {
		el.BackgroundColor = *p.BackgroundColor
	}
	if p.BackgroundOpacity != nil {
		el.BackgroundOpacity = *p.BackgroundOpacity
	}
	if p.BorderColor != nil {
		el.BorderColor = *p.BorderColor
	}
	if p.BorderWidth != nil {
		el.BorderWidth = *p.BorderWidth
	}
	if p.LetterSpacing != nil {
		el.LetterSpacing = *p.LetterSpacing
	}
	if p.LineHeight != nil {
		el.LineHeight = *p.LineHeight
	}
}
