package models

// View is one printable facing of a garment variant.
type View struct {
	Side     string `json:"side"`
	ImageURL string `json:"imageUrl"`
}

// Variant is one color of a customizable product, with its per-side
// template images.
type Variant struct {
	ColorName string `json:"colorName"`
	ColorHex  string `json:"colorHex"`
	Views     []View `json:"views"`
}

// Product is a customizable garment with its color variants.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	BasePrice int64     `json:"basePrice"`
	Variants  []Variant `json:"variants"`
}

// Asset is one selectable stock-art entry used to seed new image elements.
type Asset struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ArtCategory groups stock art for the picker.
type ArtCategory struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Assets []Asset `json:"assets"`
}

// CustomizerConfig is the payload of GET /customizer/config.
type CustomizerConfig struct {
	Products      []Product     `json:"products"`
	ArtCategories []ArtCategory `json:"artCategories"`
}

// LegacyTemplates maps color -> side -> template image URL. An empty map is
// valid and means "no legacy templates".
type LegacyTemplates map[string]map[string]string
