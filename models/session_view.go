package models

// SessionView is the state echo returned by every session endpoint: the
// client re-renders entirely from this.
type SessionView struct {
	SessionID       string          `json:"sessionId"`
	ProductID       int64           `json:"productId,omitempty"`
	ProductName     string          `json:"productName,omitempty"`
	Color           string          `json:"color"`
	Size            string          `json:"size"`
	ActiveView      string          `json:"activeView"`
	TemplateURL     string          `json:"templateUrl"`
	AvailableColors []string        `json:"availableColors"`
	AvailableSides  []string        `json:"availableSides"`
	Elements        []CanvasElement `json:"elements"` // active view only, z-order
	SelectedID      string          `json:"selectedId,omitempty"`
	Price           int64           `json:"price"`
	PriceFormatted  string          `json:"priceFormatted"`
	Breakdown       *PriceBreakdown `json:"breakdown,omitempty"`
}
