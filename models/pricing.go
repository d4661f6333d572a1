package models

// PriceLine is one component of a computed design price.
type PriceLine struct {
	Label     string  `json:"label"` // "base", "text", "image-large", ...
	View      string  `json:"view"`  // empty for the base component
	ElementID string  `json:"elementId,omitempty"`
	Coverage  float64 `json:"coverage,omitempty"` // image elements only
	Amount    int64   `json:"amount"`
}

// PriceBreakdown is the complete result of a pricing computation: the base
// component for the selected size plus one surcharge line per element across
// every view.
type PriceBreakdown struct {
	Total int64       `json:"total"`
	Lines []PriceLine `json:"lines"`
}
