package service

import (
	"fmt"
	"sort"

	"estampa-studio/models"
)

// staticTemplateBase is the serving-origin path convention used as the last
// resolution tier. Assets under it are assumed to exist per color/side.
const staticTemplateBase = "/assets/templates"

// staticFallbackColor backs the derived color list when neither a product
// nor legacy templates are available.
const staticFallbackColor = "white"

// ResolveTemplate resolves the background template URL for a
// (product, color, side) selector. First match wins:
//  1. the product variant's view image,
//  2. the legacy per-color template map,
//  3. a conventional static path built from color and side.
//
// It never fails: the caller always gets a best-effort URL and rendering
// degrades to a placeholder if the image does not load. The editor is never
// blocked on a missing template.
func ResolveTemplate(product *models.Product, legacy models.LegacyTemplates, color, side string) string {
	if product != nil {
		for _, variant := range product.Variants {
			if variant.ColorName != color {
				continue
			}
			for _, view := range variant.Views {
				if view.Side == side && view.ImageURL != "" {
					return view.ImageURL
				}
			}
		}
	}

	if sides, ok := legacy[color]; ok {
		if url, ok := sides[side]; ok && url != "" {
			return url
		}
	}

	return fmt.Sprintf("%s/%s-%s.png", staticTemplateBase, color, side)
}

// AvailableColors derives the selectable color list: the product's variant
// colors, else the legacy template keys, else a single static fallback.
func AvailableColors(product *models.Product, legacy models.LegacyTemplates) []string {
	if product != nil && len(product.Variants) > 0 {
		colors := make([]string, 0, len(product.Variants))
		for _, variant := range product.Variants {
			colors = append(colors, variant.ColorName)
		}
		return colors
	}
	if len(legacy) > 0 {
		colors := make([]string, 0, len(legacy))
		for color := range legacy {
			colors = append(colors, color)
		}
		sort.Strings(colors)
		return colors
	}
	return []string{staticFallbackColor}
}

// AvailableSides derives the selectable side list for a color: the selected
// variant's view sides, else the legacy per-color keys, else front/back.
func AvailableSides(product *models.Product, legacy models.LegacyTemplates, color string) []string {
	if product != nil {
		for _, variant := range product.Variants {
			if variant.ColorName != color {
				continue
			}
			if len(variant.Views) == 0 {
				break
			}
			sides := make([]string, 0, len(variant.Views))
			for _, view := range variant.Views {
				sides = append(sides, view.Side)
			}
			return sides
		}
	}
	if sides, ok := legacy[color]; ok && len(sides) > 0 {
		out := make([]string, 0, len(sides))
		for side := range sides {
			out = append(out, side)
		}
		sort.Strings(out)
		return out
	}
	return []string{"front", "back"}
}
