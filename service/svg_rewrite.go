package service

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"estampa-studio/models"
)

// shapeElements are the SVG element names the fill/stroke overrides apply
// to. Containers and defs are left alone.
var shapeElements = map[string]bool{
	"path":     true,
	"rect":     true,
	"circle":   true,
	"ellipse":  true,
	"line":     true,
	"polyline": true,
	"polygon":  true,
}

// RewriteSVG applies fill/stroke/opacity overrides to raw SVG markup and
// returns the mutated markup, ready for rasterization. Rules:
//   - FillColor overwrites fill on every shape element whose current fill is
//     not literally "none", so cutout shapes in the art are preserved.
//   - StrokeColor applies to every shape element unconditionally.
//   - StrokeWidth 0 removes stroke and stroke-width from every shape element;
//     a positive width sets stroke-width and defaults a missing stroke color
//     to black so the change is visible.
//   - Opacity applies at the document root only.
func RewriteSVG(markup []byte, props *models.SVGProperties) ([]byte, error) {
	if props == nil {
		return markup, nil
	}

	decoder := xml.NewDecoder(bytes.NewReader(markup))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose

	var buf bytes.Buffer
	encoder := xml.NewEncoder(&buf)

	rootSeen := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse svg markup: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			start := t.Copy()
			normalizeNames(&start)
			name := strings.ToLower(start.Name.Local)

			if !rootSeen && name == "svg" {
				rootSeen = true
				if props.Opacity != nil {
					setAttr(&start, "opacity", formatFloat(*props.Opacity))
				}
			} else if shapeElements[name] {
				rewriteShape(&start, props)
			}
			token = start
		case xml.EndElement:
			t.Name.Space = ""
			token = t
		}

		if err := encoder.EncodeToken(token); err != nil {
			return nil, fmt.Errorf("failed to serialize svg markup: %w", err)
		}
	}

	if err := encoder.Flush(); err != nil {
		return nil, fmt.Errorf("failed to serialize svg markup: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeNames strips the decoder's resolved namespace URLs so the encoder
// does not spray xmlns attributes over every element. The root's own xmlns
// declarations survive as plain attributes.
func normalizeNames(el *xml.StartElement) {
	el.Name.Space = ""
	out := el.Attr[:0]
	for _, attr := range el.Attr {
		switch attr.Name.Space {
		case "":
			out = append(out, attr)
		case "xmlns":
			attr.Name = xml.Name{Local: "xmlns:" + attr.Name.Local}
			out = append(out, attr)
		default:
			// Namespaced attribute (e.g. xlink:href): keep the local name.
			attr.Name = xml.Name{Local: attr.Name.Local}
			out = append(out, attr)
		}
	}
	el.Attr = out
}

func rewriteShape(el *xml.StartElement, props *models.SVGProperties) {
	if props.FillColor != "" {
		// Explicitly transparent shapes stay transparent.
		if fill, ok := getAttr(el, "fill"); !ok || fill != "none" {
			setAttr(el, "fill", props.FillColor)
		}
	}

	if props.StrokeColor != "" {
		setAttr(el, "stroke", props.StrokeColor)
	}

	if props.StrokeWidth != nil {
		if *props.StrokeWidth == 0 {
			removeAttr(el, "stroke")
			removeAttr(el, "stroke-width")
		} else {
			setAttr(el, "stroke-width", formatFloat(*props.StrokeWidth))
			if stroke, ok := getAttr(el, "stroke"); !ok || stroke == "" {
				setAttr(el, "stroke", "black")
			}
		}
	}
}

func getAttr(el *xml.StartElement, name string) (string, bool) {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

func setAttr(el *xml.StartElement, name, value string) {
	for i, attr := range el.Attr {
		if attr.Name.Local == name {
			el.Attr[i].Value = value
			return
		}
	}
	el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func removeAttr(el *xml.StartElement, name string) {
	out := el.Attr[:0]
	for _, attr := range el.Attr {
		if attr.Name.Local != name {
			out = append(out, attr)
		}
	}
	el.Attr = out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
