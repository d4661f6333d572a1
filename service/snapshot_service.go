package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/rs/zerolog/log"

	"estampa-studio/canvas"
	"estampa-studio/models"
	"estampa-studio/utils"
)

// fallbackSnapshotSize is the surface used when a view's template image
// cannot be loaded. The composition still exports; the garment background is
// simply absent.
const fallbackSnapshotSize = 1000

// SnapshotService flattens one view's full composition (template background
// plus all elements in z-order) into a bitmap at the template's native
// resolution, not the scaled interactive surface.
type SnapshotService struct {
	loader  *AssetLoader
	fonts   *FontLibrary
	baseURL string // Base URL for origin-relative template paths (e.g., "http://localhost:8080")
}

var _ SnapshotComposerInterface = (*SnapshotService)(nil)

// NewSnapshotService creates a SnapshotService.
func NewSnapshotService(loader *AssetLoader, fonts *FontLibrary, baseURL string) *SnapshotService {
	return &SnapshotService{
		loader:  loader,
		fonts:   fonts,
		baseURL: baseURL,
	}
}

// Compose renders the given view of the session. Element geometry is in
// reference-canvas units and is scaled to the template's pixel size. Every
// element bitmap is resolved before drawing, so pending loads are awaited
// here rather than exporting blank.
func (s *SnapshotService) Compose(ctx context.Context, sess *canvas.Session, view string) (image.Image, error) {
	color, _, _ := sess.Selectors()
	templateURL := ResolveTemplate(sess.Product(), sess.LegacyTemplates(), color, view)

	width, height := fallbackSnapshotSize, fallbackSnapshotSize
	var background image.Image
	if bg, err := s.loadBitmap(ctx, templateURL); err != nil {
		log.Warn().Err(err).Str("url", templateURL).Msg("⚠️ template failed to load, exporting composition without background")
	} else {
		background = bg
		width = bg.Bounds().Dx()
		height = bg.Bounds().Dy()
	}

	dc := gg.NewContext(width, height)

	if background != nil {
		dc.DrawImage(gg.ImageBufFromImage(background), 0, 0)
	}

	sx := float64(width) / canvas.RefWidth
	sy := float64(height) / canvas.RefHeight

	elements := sess.Elements()[view]
	for i := range elements {
		el := &elements[i]
		switch el.Kind {
		case models.KindImage:
			if err := s.drawImage(ctx, dc, el, sx, sy); err != nil {
				// Asset failures never abort a snapshot; the element simply
				// does not appear, same as in the editor.
				log.Warn().Err(err).Str("element", el.ID).Msg("⚠️ skipping element in snapshot")
			}
		case models.KindText:
			s.drawText(dc, el, sx, sy)
		}
	}

	return dc.Image(), nil
}

// loadBitmap fetches and decodes a plain raster URL (the view template).
// Origin-relative paths from the static fallback tier are resolved against
// the configured base URL.
func (s *SnapshotService) loadBitmap(ctx context.Context, url string) (image.Image, error) {
	if strings.HasPrefix(url, "/") {
		url = s.baseURL + url
	}
	data, err := s.loader.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", url, err)
	}
	return img, nil
}

func (s *SnapshotService) drawImage(ctx context.Context, dc *gg.Context, el *models.CanvasElement, sx, sy float64) error {
	w := int(math.Round(el.Width * sx))
	h := int(math.Round(el.Height * sy))
	if w < 1 || h < 1 {
		return fmt.Errorf("element %s scales to an empty raster", el.ID)
	}

	img, err := s.loader.Resolve(ctx, el, w, h)
	if err != nil {
		return err
	}

	dc.Push()
	dc.RotateAbout(el.Rotation*math.Pi/180, el.X*sx, el.Y*sy)
	dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:         el.X * sx,
		Y:         el.Y * sy,
		DstWidth:  el.Width * sx,
		DstHeight: el.Height * sy,
	})
	dc.Pop()
	return nil
}

func (s *SnapshotService) drawText(dc *gg.Context, el *models.CanvasElement, sx, sy float64) {
	x := el.X * sx
	y := el.Y * sy
	w := el.Width * sx
	h := el.Height * sy

	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(el.Rotation*math.Pi/180, x, y)

	// Background box behind the glyphs.
	if el.BackgroundColor != "" && el.BackgroundColor != "transparent" {
		if bg, err := utils.ParseHexColor(el.BackgroundColor); err == nil {
			opacity := el.BackgroundOpacity
			if opacity <= 0 {
				opacity = 1
			}
			dc.SetColor(utils.WithOpacity(bg, opacity))
			dc.DrawRectangle(x, y, w, h)
			dc.Fill()
		}
	}

	fontSize := el.FontSize * sy
	if fontSize <= 0 {
		fontSize = 16 * sy
	}
	face := s.fonts.Face(el.FontFamily, el.FontStyle, fontSize)
	dc.SetFont(face)

	fill, err := utils.ParseHexColor(el.Fill)
	if err != nil || el.Fill == "" {
		fill = color.RGBA{A: 0xff} // default black
	}
	dc.SetColor(fill)

	lineHeight := el.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1.2
	}
	letterSpacing := el.LetterSpacing * sx

	baseline := y + fontSize
	for _, line := range strings.Split(el.Text, "\n") {
		if letterSpacing == 0 {
			dc.DrawString(line, x, baseline)
		} else {
			// Per-rune placement so the spacing override actually shows.
			cx := x
			for _, r := range line {
				ch := string(r)
				dc.DrawString(ch, cx, baseline)
				adv, _ := dc.MeasureString(ch)
				cx += adv + letterSpacing
			}
		}
		baseline += fontSize * lineHeight
	}

	// Border drawn last so it frames the background and the glyphs.
	if el.BorderWidth > 0 && el.BorderColor != "" {
		if border, err := utils.ParseHexColor(el.BorderColor); err == nil {
			dc.SetColor(border)
			dc.SetLineWidth(el.BorderWidth * sx)
			dc.DrawRectangle(x, y, w, h)
			dc.Stroke()
		}
	}
}

// EncodePNG serializes a composed snapshot for upload.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}
