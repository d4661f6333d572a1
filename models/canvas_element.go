package models

import "strings"

// ElementKind discriminates the two element variants placed on a garment view.
type ElementKind string

const (
	KindImage ElementKind = "image"
	KindText  ElementKind = "text"
)

// SVGProperties holds the style overrides applied to an SVG art asset before
// it is rasterized. Only meaningful when the element's Src ends in ".svg".
type SVGProperties struct {
	FillColor   string   `json:"fillColor,omitempty"`
	StrokeColor string   `json:"strokeColor,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
}

// CanvasElement is one placed design element on one garment view.
// Kind selects which variant fields are valid: Src/SVGProps for images,
// Text and the typography fields for text.
type CanvasElement struct {
	ID   string      `json:"id"`
	Kind ElementKind `json:"type"`

	// Geometry, in template-space units (500x500 reference canvas).
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"` // degrees

	// Image variant
	Src      string         `json:"src,omitempty"`
	SVGProps *SVGProperties `json:"svgProperties,omitempty"`

	// Text variant
	Text              string  `json:"text,omitempty"`
	FontSize          float64 `json:"fontSize,omitempty"`
	FontFamily        string  `json:"fontFamily,omitempty"`
	FontStyle         string  `json:"fontStyle,omitempty"` // "normal" or space-joined subset of {bold, italic}
	Fill              string  `json:"fill,omitempty"`
	BackgroundColor   string  `json:"backgroundColor,omitempty"` // "transparent" or hex
	BackgroundOpacity float64 `json:"backgroundOpacity,omitempty"`
	BorderColor       string  `json:"borderColor,omitempty"`
	BorderWidth       float64 `json:"borderWidth,omitempty"`   // 0..5
	LetterSpacing     float64 `json:"letterSpacing,omitempty"` // -2..5
	LineHeight        float64 `json:"lineHeight,omitempty"`    // 0.8..2.0
}

// IsSVG reports whether the element's source is an SVG document, i.e. whether
// SVGProps overrides apply.
func (e *CanvasElement) IsSVG() bool {
	return e.Kind == KindImage && strings.HasSuffix(strings.ToLower(e.Src), ".svg")
}

// Area returns the element's rendered area in template-space units.
func (e *CanvasElement) Area() float64 {
	return e.Width * e.Height
}

// ElementPatch carries the fields of an element update. Pointer fields
// distinguish "not present" from zero values so merges preserve everything
// the caller did not send.
type ElementPatch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`

	Src      *string        `json:"src,omitempty"`
	SVGProps *SVGProperties `json:"svgProperties,omitempty"`

	Text              *string  `json:"text,omitempty"`
	FontSize          *float64 `json:"fontSize,omitempty"`
	FontFamily        *string  `json:"fontFamily,omitempty"`
	FontStyle         *string  `json:"fontStyle,omitempty"`
	Fill              *string  `json:"fill,omitempty"`
	BackgroundColor   *string  `json:"backgroundColor,omitempty"`
	BackgroundOpacity *float64 `json:"backgroundOpacity,omitempty"`
	BorderColor       *string  `json:"borderColor,omitempty"`
	BorderWidth       *float64 `json:"borderWidth,omitempty"`
	LetterSpacing     *float64 `json:"letterSpacing,omitempty"`
	LineHeight        *float64 `json:"lineHeight,omitempty"`
}

// ElementsByView maps a garment view name (front/back/left/right, extensible)
// to that view's ordered element sequence. Order is z-order: later elements
// render above earlier ones.
type ElementsByView map[string][]CanvasElement
