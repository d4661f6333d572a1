package pricing

import (
	"testing"

	"estampa-studio/models"
)

func testConfig() *Config {
	config := &Config{
		Currency:      "INR",
		BasePrices:    map[string]int64{"regular": 899, "plus": 999},
		SizeBuckets:   map[string]string{"XS": "regular", "S": "regular", "M": "regular", "L": "plus", "XL": "plus", "2XL": "plus"},
		DefaultBucket: "regular",
		TextSurcharge: 50,
		ImageTiers: []ImageTier{
			{Name: "large", MinCoverage: 0.5, Surcharge: 300},
			{Name: "medium", MinCoverage: 0.2, Surcharge: 150},
			{Name: "small", MinCoverage: 0, Surcharge: 80},
		},
	}
	config.ReferenceCanvas.Width = 500
	config.ReferenceCanvas.Height = 500
	return config
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngineFromConfig(testConfig())
	if err != nil {
		t.Fatalf("NewEngineFromConfig: %v", err)
	}
	return engine
}

func TestQuoteBaseOnly(t *testing.T) {
	engine := testEngine(t)
	got := engine.Quote("M", models.ElementsByView{})
	if got.Total != 899 {
		t.Errorf("empty design on M = %d, want 899", got.Total)
	}
	got = engine.Quote("XL", models.ElementsByView{})
	if got.Total != 999 {
		t.Errorf("empty design on XL = %d, want 999", got.Total)
	}
}

func TestQuoteTextSurcharge(t *testing.T) {
	engine := testEngine(t)
	elements := models.ElementsByView{
		"front": {{ID: "t1", Kind: models.KindText, Text: "hi", Width: 100, Height: 40}},
	}
	got := engine.Quote("M", elements)
	if got.Total != 949 {
		t.Errorf("one text on M = %d, want 949", got.Total)
	}
}

func TestQuoteImageTiers(t *testing.T) {
	engine := testEngine(t)
	tests := []struct {
		name string
		w, h float64
		want int64
		tier string
	}{
		// 400x400 on a 500x500 canvas is coverage 0.64.
		{"large", 400, 400, 899 + 300, "image-large"},
		// 300x300 is coverage 0.36.
		{"medium", 300, 300, 899 + 150, "image-medium"},
		// 100x100 is coverage 0.04.
		{"small", 100, 100, 899 + 80, "image-small"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			elements := models.ElementsByView{
				"front": {{ID: "i1", Kind: models.KindImage, Width: tc.w, Height: tc.h}},
			}
			got := engine.Quote("M", elements)
			if got.Total != tc.want {
				t.Errorf("got total %d, want %d", got.Total, tc.want)
			}
			if len(got.Lines) != 2 || got.Lines[1].Label != tc.tier {
				t.Errorf("got lines %+v, want base plus %s", got.Lines, tc.tier)
			}
		})
	}
}

func TestQuoteTierThresholdIsStrict(t *testing.T) {
	engine := testEngine(t)
	// Exactly half coverage must not reach the large tier.
	elements := models.ElementsByView{
		"front": {{ID: "i1", Kind: models.KindImage, Width: 500, Height: 250}},
	}
	got := engine.Quote("M", elements)
	if got.Total != 899+150 {
		t.Errorf("coverage exactly 0.5 = %d, want medium surcharge 1049", got.Total)
	}
}

func TestQuoteSumsAcrossViews(t *testing.T) {
	engine := testEngine(t)
	elements := models.ElementsByView{
		"front": {
			{ID: "t1", Kind: models.KindText, Text: "a", Width: 100, Height: 40},
			{ID: "i1", Kind: models.KindImage, Width: 100, Height: 100},
		},
		"back": {
			{ID: "i2", Kind: models.KindImage, Width: 400, Height: 400},
		},
	}
	got := engine.Quote("L", elements)
	want := int64(999 + 50 + 80 + 300)
	if got.Total != want {
		t.Errorf("got total %d, want %d", got.Total, want)
	}
	// Canonical view order keeps the breakdown stable.
	if got.Lines[1].View != "front" || got.Lines[3].View != "back" {
		t.Errorf("breakdown out of canonical order: %+v", got.Lines)
	}
}

func TestQuoteMonotonicInElements(t *testing.T) {
	engine := testEngine(t)
	elements := models.ElementsByView{"front": nil}
	prev := engine.Quote("M", elements).Total
	for i := 0; i < 5; i++ {
		elements["front"] = append(elements["front"], models.CanvasElement{
			Kind: models.KindImage, Width: 50, Height: 50,
		})
		total := engine.Quote("M", elements).Total
		if total <= prev {
			t.Fatalf("adding an element dropped the price from %d to %d", prev, total)
		}
		prev = total
	}
}

func TestQuoteUnknownSizeUsesDefaultBucket(t *testing.T) {
	engine := testEngine(t)
	got := engine.Quote("XXS", models.ElementsByView{})
	if got.Total != 899 {
		t.Errorf("unknown size = %d, want default bucket 899", got.Total)
	}
}

func TestQuoteNormalizesSizeAliases(t *testing.T) {
	engine := testEngine(t)
	if got := engine.Quote("extra large", models.ElementsByView{}).Total; got != 999 {
		t.Errorf("alias 'extra large' = %d, want 999", got)
	}
	if got := engine.Quote("xl", models.ElementsByView{}).Total; got != 999 {
		t.Errorf("lowercase 'xl' = %d, want 999", got)
	}
}

func TestFormatAmount(t *testing.T) {
	engine := testEngine(t)
	if got := engine.FormatAmount(1049); got != "₹1,049" {
		t.Errorf("FormatAmount(1049) = %q, want ₹1,049", got)
	}

	config := testConfig()
	config.Currency = "USD"
	other, err := NewEngineFromConfig(config)
	if err != nil {
		t.Fatalf("NewEngineFromConfig: %v", err)
	}
	if got := other.FormatAmount(1049); got != "USD 1049" {
		t.Errorf("FormatAmount(1049) = %q, want USD 1049", got)
	}
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing currency", func(c *Config) { c.Currency = "" }},
		{"no base prices", func(c *Config) { c.BasePrices = nil }},
		{"zero canvas", func(c *Config) { c.ReferenceCanvas.Width = 0 }},
		{"no tiers", func(c *Config) { c.ImageTiers = nil }},
		{"no floor tier", func(c *Config) {
			c.ImageTiers = []ImageTier{{Name: "large", MinCoverage: 0.5, Surcharge: 300}}
		}},
		{"negative surcharge", func(c *Config) { c.ImageTiers[0].Surcharge = -1 }},
		{"negative text surcharge", func(c *Config) { c.TextSurcharge = -1 }},
		{"default bucket without price", func(c *Config) { c.DefaultBucket = "kids" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := testConfig()
			tc.mutate(config)
			if _, err := NewEngineFromConfig(config); err == nil {
				t.Error("expected config validation error")
			}
		})
	}
}
