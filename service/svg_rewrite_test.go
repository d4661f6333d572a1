package service

import (
	"strings"
	"testing"

	"estampa-studio/models"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
<path d="M10 10 L90 90" stroke="red" stroke-width="2"/>
<rect x="10" y="10" width="30" height="30" fill="#ff0000"/>
<circle cx="50" cy="50" r="20" fill="none"/>
<g><polygon points="0,0 10,0 5,10"/></g>
</svg>`

func floatPtr(f float64) *float64 { return &f }

func TestRewriteSVGNilPropsPassthrough(t *testing.T) {
	out, err := RewriteSVG([]byte(testSVG), nil)
	if err != nil {
		t.Fatalf("RewriteSVG: %v", err)
	}
	if string(out) != testSVG {
		t.Error("nil props must return the markup unchanged")
	}
}

func TestRewriteSVGFillSkipsNone(t *testing.T) {
	out, err := RewriteSVG([]byte(testSVG), &models.SVGProperties{FillColor: "#00ff00"})
	if err != nil {
		t.Fatalf("RewriteSVG: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `<rect x="10" y="10" width="30" height="30" fill="#00ff00">`) {
		t.Errorf("rect fill not overridden:\n%s", s)
	}
	if !strings.Contains(s, `fill="none"`) {
		t.Errorf("explicit fill=none must be preserved:\n%s", s)
	}
	if strings.Contains(s, `#ff0000`) {
		t.Errorf("old fill survived:\n%s", s)
	}
	// Shapes without a fill attribute gain one; containers stay untouched.
	if !strings.Contains(s, `points="0,0 10,0 5,10" fill="#00ff00"`) {
		t.Errorf("polygon did not gain the fill:\n%s", s)
	}
	if strings.Contains(s, `<g fill=`) {
		t.Errorf("container element must not be rewritten:\n%s", s)
	}
}

func TestRewriteSVGStrokeUnconditional(t *testing.T) {
	out, err := RewriteSVG([]byte(testSVG), &models.SVGProperties{StrokeColor: "#0000ff"})
	if err != nil {
		t.Fatalf("RewriteSVG: %v", err)
	}
	s := string(out)
	if strings.Contains(s, `stroke="red"`) {
		t.Errorf("existing stroke not overridden:\n%s", s)
	}
	if strings.Count(s, `stroke="#0000ff"`) != 4 {
		t.Errorf("every shape must carry the stroke, got:\n%s", s)
	}
}

func TestRewriteSVGStrokeWidthZeroRemoves(t *testing.T) {
	out, err := RewriteSVG([]byte(testSVG), &models.SVGProperties{StrokeWidth: floatPtr(0)})
	if err != nil {
		t.Fatalf("RewriteSVG: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "stroke") {
		t.Errorf("stroke attributes must be removed entirely:\n%s", s)
	}
}

func TestRewriteSVGStrokeWidthDefaultsColor(t *testing.T) {
	out, err := RewriteSVG([]byte(testSVG), &models.SVGProperties{StrokeWidth: floatPtr(3)})
	if err != nil {
		t.Fatalf("RewriteSVG: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `stroke-width="3"`) {
		t.Errorf("stroke width not applied:\n%s", s)
	}
	// The path keeps its red stroke; bare shapes default to black.
	if !strings.Contains(s, `stroke="red"`) {
		t.Errorf("existing stroke color must survive a width-only change:\n%s", s)
	}
	if !strings.Contains(s, `stroke="black"`) {
		t.Errorf("shapes without a stroke must default to black:\n%s", s)
	}
}

func TestRewriteSVGOpacityRootOnly(t *testing.T) {
	out, err := RewriteSVG([]byte(testSVG), &models.SVGProperties{Opacity: floatPtr(0.5)})
	if err != nil {
		t.Fatalf("RewriteSVG: %v", err)
	}
	s := string(out)
	if strings.Count(s, `opacity="0.5"`) != 1 {
		t.Errorf("opacity must appear exactly once, at the root:\n%s", s)
	}
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" opacity="0.5">`) {
		t.Errorf("opacity missing from the root element:\n%s", s)
	}
}

func TestRewriteSVGIdempotent(t *testing.T) {
	props := &models.SVGProperties{FillColor: "#123456", StrokeColor: "#654321", StrokeWidth: floatPtr(2)}
	once, err := RewriteSVG([]byte(testSVG), props)
	if err != nil {
		t.Fatalf("first rewrite: %v", err)
	}
	twice, err := RewriteSVG(once, props)
	if err != nil {
		t.Fatalf("second rewrite: %v", err)
	}
	if string(once) != string(twice) {
		t.Errorf("rewrite is not idempotent:\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
}

func TestRewriteSVGKeepsNamespacedAttrs(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
<use xlink:href="#shape"/>
<path d="M0 0"/>
</svg>`
	out, err := RewriteSVG([]byte(markup), &models.SVGProperties{FillColor: "#fff"})
	if err != nil {
		t.Fatalf("RewriteSVG: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `href="#shape"`) {
		t.Errorf("href reference lost:\n%s", s)
	}
	if !strings.Contains(s, `xmlns:xlink=`) {
		t.Errorf("root namespace declaration lost:\n%s", s)
	}
}

func TestRewriteSVGRejectsGarbage(t *testing.T) {
	if _, err := RewriteSVG([]byte("<svg><path"), &models.SVGProperties{FillColor: "#fff"}); err == nil {
		t.Error("expected parse error for truncated markup")
	}
}
