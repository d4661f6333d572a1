package models

// DesignSubmission is the payload assembled by the export pipeline and
// persisted as a custom design. Elements carries every view (for later
// re-editing), Snapshots only the non-empty ones.
type DesignSubmission struct {
	Title        string            `json:"title"`
	Color        string            `json:"color"`
	Size         string            `json:"size"`
	ThumbnailURL string            `json:"thumbnailUrl"`
	Snapshots    map[string]string `json:"snapshots"`
	Elements     ElementsByView    `json:"elements"`
	Price        int64             `json:"price"`
}

// ExportResult is returned to the client after a successful export.
type ExportResult struct {
	CustomProductID string            `json:"customProductId"`
	ThumbnailURL    string            `json:"thumbnailUrl"`
	Snapshots       map[string]string `json:"snapshots"`
	Price           int64             `json:"price"`
}

// CartLine is the request the export pipeline makes against the cart
// subsystem once a design has been created.
type CartLine struct {
	CustomProductID string `json:"customProductId"`
	Quantity        int    `json:"quantity"`
}
