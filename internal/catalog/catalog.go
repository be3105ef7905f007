package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"brookschat/internal/models"
)

// photos.json is produced by an offline generation step that scans the image
// directory; at runtime the catalog is read-only.
//
//go:embed photos.json
var photosJSON []byte

// Catalog holds the static photo collection available for relevance search.
type Catalog struct {
	photos []models.PhotoRecord
}

// New parses the embedded photo asset. IDs and filenames are percent-encoded
// so they can be placed in a URL path segment as-is.
func New() (*Catalog, error) {
	return parse(photosJSON)
}

func parse(data []byte) (*Catalog, error) {
	var photos []models.PhotoRecord
	if err := json.Unmarshal(data, &photos); err != nil {
		return nil, fmt.Errorf("decode photo catalog: %w", err)
	}
	for i := range photos {
		if photos[i].Filename == "" {
			return nil, fmt.Errorf("photo %q has empty filename", photos[i].ID)
		}
		photos[i].ID = url.PathEscape(photos[i].ID)
		photos[i].Filename = url.PathEscape(photos[i].Filename)
	}
	return &Catalog{photos: photos}, nil
}

// Len reports the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.photos)
}

// ByCategory returns up to limit photos whose category matches exactly
// (case-insensitive).
func (c *Catalog) ByCategory(category string, limit int) []models.PhotoRecord {
	if limit <= 0 {
		limit = defaultLimit
	}
	var out []models.PhotoRecord
	for _, p := range c.photos {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Categories returns the distinct categories present in the catalog, in
// first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.photos {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
