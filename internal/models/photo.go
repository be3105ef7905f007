package models

// PhotoRecord describes one entry of the static photo catalog. Records are
// generated offline, loaded once at startup, and immutable afterwards.
// ID and Filename are percent-encoded on load so they are always safe to
// embed in a URL path segment.
type PhotoRecord struct {
	ID          string   `json:"id"`
	Filename    string   `json:"filename"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}
