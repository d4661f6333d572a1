package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"estampa-studio/models"
	"estampa-studio/utils"
)

// Config is the pricing configuration structure loaded from JSON.
type Config struct {
	Currency string `json:"currency"`

	// ReferenceCanvas is the fixed canvas area image coverage is measured
	// against. Kept in config so a canvas resize cannot silently skew tiers.
	ReferenceCanvas struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"referenceCanvas"`

	// BasePrices maps a size bucket to the garment base price.
	BasePrices map[string]int64 `json:"basePrices"`

	// SizeBuckets maps a normalized size to its bucket.
	SizeBuckets map[string]string `json:"sizeBuckets"`

	// DefaultBucket is used for sizes absent from SizeBuckets.
	DefaultBucket string `json:"defaultBucket"`

	// TextSurcharge is the flat add-on per text element.
	TextSurcharge int64 `json:"textSurcharge"`

	// ImageTiers are coverage-tiered add-ons per image element, matched
	// against coverage strictly greater than MinCoverage. The zero-coverage
	// tier is the minimum charge for adding any image at all.
	ImageTiers []ImageTier `json:"imageTiers"`
}

// ImageTier is one coverage band of the image surcharge table.
type ImageTier struct {
	Name        string  `json:"name"`
	MinCoverage float64 `json:"minCoverage"`
	Surcharge   int64   `json:"surcharge"`
}

// Engine computes design prices from the JSON configuration. Quote is pure:
// same size and elements in, same price out.
type Engine struct {
	config *Config
}

var engineInstance *Engine

// NewEngine loads the pricing configuration and returns the engine singleton.
func NewEngine(configPath string) (*Engine, error) {
	if engineInstance != nil {
		return engineInstance, nil
	}

	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing config: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse pricing config: %w", err)
	}

	engine, err := NewEngineFromConfig(&config)
	if err != nil {
		return nil, err
	}

	engineInstance = engine
	log.Info().Str("path", configPath).Msg("✅ PricingEngine: loaded pricing config")
	return engine, nil
}

// NewEngineFromConfig builds an engine from an already-parsed config.
func NewEngineFromConfig(config *Config) (*Engine, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid pricing config: %w", err)
	}

	// Sort tiers widest-coverage first so the first match wins.
	sort.Slice(config.ImageTiers, func(i, j int) bool {
		return config.ImageTiers[i].MinCoverage > config.ImageTiers[j].MinCoverage
	})

	return &Engine{config: config}, nil
}

func validateConfig(config *Config) error {
	if config.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if len(config.BasePrices) == 0 {
		return fmt.Errorf("basePrices are required")
	}
	if config.ReferenceCanvas.Width <= 0 || config.ReferenceCanvas.Height <= 0 {
		return fmt.Errorf("referenceCanvas dimensions must be positive")
	}
	if len(config.ImageTiers) == 0 {
		return fmt.Errorf("imageTiers are required")
	}
	hasFloor := false
	for _, tier := range config.ImageTiers {
		if tier.Surcharge < 0 {
			return fmt.Errorf("imageTier %q has a negative surcharge", tier.Name)
		}
		if tier.MinCoverage == 0 {
			hasFloor = true
		}
	}
	if !hasFloor {
		return fmt.Errorf("imageTiers must include a zero-coverage floor tier")
	}
	if config.TextSurcharge < 0 {
		return fmt.Errorf("textSurcharge must be non-negative")
	}
	if config.DefaultBucket == "" {
		return fmt.Errorf("defaultBucket is required")
	}
	if _, ok := config.BasePrices[config.DefaultBucket]; !ok {
		return fmt.Errorf("defaultBucket %q has no base price", config.DefaultBucket)
	}
	return nil
}

// Currency returns the configured currency code.
func (e *Engine) Currency() string {
	return e.config.Currency
}

// FormatAmount renders an amount in the configured currency's display
// convention.
func (e *Engine) FormatAmount(amount int64) string {
	switch e.config.Currency {
	case "INR":
		return utils.FormatINR(amount)
	default:
		return fmt.Sprintf("%s %d", e.config.Currency, amount)
	}
}

// bucketFor maps a size to its base-price bucket.
func (e *Engine) bucketFor(size string) string {
	normalized := utils.NormalizeSize(size)
	if bucket, exists := e.config.SizeBuckets[normalized]; exists {
		return bucket
	}
	return e.config.DefaultBucket
}

// tierFor selects the image surcharge tier for a coverage fraction.
// Tiers are sorted widest first; coverage must strictly exceed the tier
// threshold, and the zero floor catches everything else.
func (e *Engine) tierFor(coverage float64) ImageTier {
	for _, tier := range e.config.ImageTiers {
		if tier.MinCoverage == 0 || coverage > tier.MinCoverage {
			return tier
		}
	}
	return e.config.ImageTiers[len(e.config.ImageTiers)-1]
}

// Quote computes the price of a composition: the size-bucket base plus one
// surcharge per element across all views. Always non-negative; never errors.
func (e *Engine) Quote(size string, elements models.ElementsByView) *models.PriceBreakdown {
	bucket := e.bucketFor(size)
	base, ok := e.config.BasePrices[bucket]
	if !ok {
		base = e.config.BasePrices[e.config.DefaultBucket]
	}

	breakdown := &models.PriceBreakdown{
		Total: base,
		Lines: []models.PriceLine{{Label: "base", Amount: base}},
	}

	refArea := e.config.ReferenceCanvas.Width * e.config.ReferenceCanvas.Height

	// Views are walked in canonical-then-lexical order so the breakdown is
	// stable for equal inputs.
	for _, view := range orderedViews(elements) {
		for _, el := range elements[view] {
			switch el.Kind {
			case models.KindText:
				breakdown.Total += e.config.TextSurcharge
				breakdown.Lines = append(breakdown.Lines, models.PriceLine{
					Label:     "text",
					View:      view,
					ElementID: el.ID,
					Amount:    e.config.TextSurcharge,
				})
			case models.KindImage:
				coverage := el.Area() / refArea
				tier := e.tierFor(coverage)
				breakdown.Total += tier.Surcharge
				breakdown.Lines = append(breakdown.Lines, models.PriceLine{
					Label:     "image-" + tier.Name,
					View:      view,
					ElementID: el.ID,
					Coverage:  coverage,
					Amount:    tier.Surcharge,
				})
			}
		}
	}

	return breakdown
}

// orderedViews returns the map's keys with the canonical views first and any
// extra views sorted after them.
func orderedViews(elements models.ElementsByView) []string {
	canonical := []string{"front", "back", "left", "right"}
	seen := map[string]bool{}
	var out []string
	for _, view := range canonical {
		if _, ok := elements[view]; ok {
			out = append(out, view)
			seen[view] = true
		}
	}
	var extra []string
	for view := range elements {
		if !seen[view] {
			extra = append(extra, view)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
