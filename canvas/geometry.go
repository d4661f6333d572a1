package canvas

import (
	"math"

	"estampa-studio/models"
)

const (
	// RefWidth and RefHeight are the dimensions of the reference canvas all
	// element geometry is expressed in. Template images are scaled from this
	// space at snapshot time.
	RefWidth  = 500.0
	RefHeight = 500.0

	// MinElementSize is the smallest width/height a transform may produce.
	// Transform operations that would shrink below this keep the old box.
	MinElementSize = 5.0

	// handleHitRadius is how close (in reference units) a pointer-down must
	// land to a transform handle to grab it.
	handleHitRadius = 8.0

	// rotateHandleOffset is how far above the box's top edge the rotate
	// handle sits, in the element's local frame.
	rotateHandleOffset = 20.0
)

// Handle identifies one grab point of a selected element's transform box.
type Handle string

const (
	HandleNone   Handle = ""
	HandleNW     Handle = "nw"
	HandleN      Handle = "n"
	HandleNE     Handle = "ne"
	HandleE      Handle = "e"
	HandleSE     Handle = "se"
	HandleS      Handle = "s"
	HandleSW     Handle = "sw"
	HandleW      Handle = "w"
	HandleRotate Handle = "rotate"
)

// toLocal maps a point in reference-canvas coordinates into the element's
// unrotated local frame, where the element occupies [0,W]x[0,H] with its
// rotation origin at the local origin.
func toLocal(el *models.CanvasElement, x, y float64) (float64, float64) {
	rad := -el.Rotation * math.Pi / 180
	dx := x - el.X
	dy := y - el.Y
	lx := dx*math.Cos(rad) - dy*math.Sin(rad)
	ly := dx*math.Sin(rad) + dy*math.Cos(rad)
	return lx, ly
}

// toGlobal maps a point in the element's local frame back to reference-canvas
// coordinates.
func toGlobal(el *models.CanvasElement, lx, ly float64) (float64, float64) {
	rad := el.Rotation * math.Pi / 180
	gx := lx*math.Cos(rad) - ly*math.Sin(rad)
	gy := lx*math.Sin(rad) + ly*math.Cos(rad)
	return el.X + gx, el.Y + gy
}

// hitTest reports whether the point lies inside the element's rotated box.
func hitTest(el *models.CanvasElement, x, y float64) bool {
	lx, ly := toLocal(el, x, y)
	return lx >= 0 && lx <= el.Width && ly >= 0 && ly <= el.Height
}

// handleLocal returns a handle's position in the element's local frame.
func handleLocal(el *models.CanvasElement, h Handle) (float64, float64) {
	w, ht := el.Width, el.Height
	switch h {
	case HandleNW:
		return 0, 0
	case HandleN:
		return w / 2, 0
	case HandleNE:
		return w, 0
	case HandleE:
		return w, ht / 2
	case HandleSE:
		return w, ht
	case HandleS:
		return w / 2, ht
	case HandleSW:
		return 0, ht
	case HandleW:
		return 0, ht / 2
	case HandleRotate:
		return w / 2, -rotateHandleOffset
	}
	return 0, 0
}

var allHandles = []Handle{
	HandleRotate,
	HandleNW, HandleNE, HandleSE, HandleSW,
	HandleN, HandleE, HandleS, HandleW,
}

// hitHandle returns which of the element's transform handles the point grabs,
// or HandleNone. Corners win over edges; the rotate handle wins over all.
func hitHandle(el *models.CanvasElement, x, y float64) Handle {
	lx, ly := toLocal(el, x, y)
	for _, h := range allHandles {
		hx, hy := handleLocal(el, h)
		if math.Hypot(lx-hx, ly-hy) <= handleHitRadius {
			return h
		}
	}
	return HandleNone
}

// resizeBox computes the element's new box for a resize-handle drag, given
// the pointer in reference coordinates. The corner or edge opposite the
// grabbed handle stays fixed. Returns false when the result would violate
// the minimum size, in which case the caller keeps the old box.
func resizeBox(start *models.CanvasElement, h Handle, x, y float64) (out models.CanvasElement, ok bool) {
	lx, ly := toLocal(start, x, y)

	// New box in the start element's local frame: origin shift + dimensions.
	var ox, oy, w, ht float64
	w, ht = start.Width, start.Height
	switch h {
	case HandleSE:
		w, ht = lx, ly
	case HandleE:
		w = lx
	case HandleS:
		ht = ly
	case HandleNW:
		ox, oy = lx, ly
		w, ht = start.Width-lx, start.Height-ly
	case HandleN:
		oy = ly
		ht = start.Height - ly
	case HandleW:
		ox = lx
		w = start.Width - lx
	case HandleNE:
		oy = ly
		w, ht = lx, start.Height-ly
	case HandleSW:
		ox = lx
		w, ht = start.Width-lx, ly
	default:
		return *start, false
	}

	if w < MinElementSize || ht < MinElementSize {
		return *start, false
	}

	out = *start
	out.X, out.Y = toGlobal(start, ox, oy)
	out.Width, out.Height = w, ht
	return out, true
}

// rotationFor returns the rotation (degrees, normalized to [0,360)) that
// points the rotate handle from the element's center toward the pointer.
func rotationFor(start *models.CanvasElement, x, y float64) float64 {
	cx, cy := toGlobal(start, start.Width/2, start.Height/2)
	// The rotate handle sits above the top edge, i.e. at -90° in local terms.
	deg := math.Atan2(y-cy, x-cx)*180/math.Pi + 90
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
