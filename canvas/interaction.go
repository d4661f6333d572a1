package canvas

import (
	"estampa-studio/models"
)

// pointerMode is the gesture the session is currently in.
type pointerMode int

const (
	modeNone pointerMode = iota
	modeDrag
	modeTransform
)

// pointerState tracks one in-flight gesture. start holds the element as it
// was at pointer-down; transforms are computed from it, not from
// intermediate states, so the gesture stays stable.
type pointerState struct {
	mode   pointerMode
	handle Handle
	start  models.CanvasElement
	grabDX float64
	grabDY float64
}

// PointerDown feeds a pointer-down at reference-canvas coordinates through
// the interaction state machine. Handle grabs on the current selection win
// over element hits; element hits are resolved topmost-first; a miss clears
// the selection.
func (s *Session) PointerDown(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A selected element exposes its transform box first.
	if s.selected != "" {
		if el, ok := s.findLocked(s.selected); ok {
			if h := hitHandle(&el, x, y); h != HandleNone {
				s.gesture = pointerState{mode: modeTransform, handle: h, start: el}
				return
			}
		}
	}

	// Topmost element under the pointer (reverse z-order).
	seq := s.elements[s.active]
	for i := len(seq) - 1; i >= 0; i-- {
		el := seq[i]
		if hitTest(&el, x, y) {
			s.selected = el.ID
			s.gesture = pointerState{
				mode:   modeDrag,
				start:  el,
				grabDX: x - el.X,
				grabDY: y - el.Y,
			}
			return
		}
	}

	// Empty canvas: deselect.
	s.selected = ""
	s.gesture = pointerState{}
}

// PointerMove advances the current gesture. Drags update position
// continuously; handle drags resize or rotate against the pointer-down
// snapshot. Transforms that would shrink the box below the minimum are
// rejected and the old box is retained.
func (s *Session) PointerMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := &s.gesture
	if g.mode == modeNone || s.selected == "" {
		return
	}
	el, ok := s.findLocked(s.selected)
	if !ok {
		s.gesture = pointerState{}
		return
	}

	switch g.mode {
	case modeDrag:
		el.X = x - g.grabDX
		el.Y = y - g.grabDY
		s.replaceLocked(el)
	case modeTransform:
		if g.handle == HandleRotate {
			el.Rotation = rotationFor(&g.start, x, y)
			s.replaceLocked(el)
			return
		}
		next, ok := resizeBox(&g.start, g.handle, x, y)
		if !ok {
			return
		}
		next.Rotation = el.Rotation
		if el.Kind == models.KindText && g.start.Height > 0 {
			// Text scales its font with the vertical factor instead of
			// stretching glyphs.
			next.FontSize = g.start.FontSize * (next.Height / g.start.Height)
		}
		s.replaceLocked(next)
	}
}

// PointerUp commits the gesture. Positions were already written through
// during the move stream, so this only closes the state machine.
func (s *Session) PointerUp() {
	s.mu.Lock()
	s.gesture = pointerState{}
	s.mu.Unlock()
}

// KeyDown handles the keyboard surface. Delete/Backspace removes the
// selected element unless an editable text control has focus on the client,
// which is the guard that keeps structural shortcuts from eating normal
// typing in the surrounding forms.
func (s *Session) KeyDown(key string, editableFocused bool) {
	if key != "Delete" && key != "Backspace" {
		return
	}
	if editableFocused {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return
	}
	s.removeLocked(s.selected)
	s.gesture = pointerState{}
}

func (s *Session) findLocked(id string) (models.CanvasElement, bool) {
	for _, el := range s.elements[s.active] {
		if el.ID == id {
			return el, true
		}
	}
	return models.CanvasElement{}, false
}
