package catalog

import (
	"sort"
	"strings"

	"brookschat/internal/models"
)

const defaultLimit = 3

// Term weights. Substring matching is deliberate: "fish" should match
// "fishing" even though it also lets "art" match "cart".
const (
	descriptionWeight = 3
	titleWeight       = 5
	tagWeight         = 2
	categoryWeight    = 4
)

// Search scores every catalog entry against the whitespace-split query terms
// and returns the best matches, highest score first. Records that match no
// term are omitted, so an empty or whitespace-only query yields nil. Ties
// keep the catalog's original order. Repeated query terms compound the
// description/title/tag scores.
func (c *Catalog) Search(query string, limit int) []models.PhotoRecord {
	if limit <= 0 {
		limit = defaultLimit
	}
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		photo models.PhotoRecord
		score int
	}
	var matches []scored
	for _, photo := range c.photos {
		if score := scoreRecord(photo, terms); score > 0 {
			matches = append(matches, scored{photo: photo, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]models.PhotoRecord, len(matches))
	for i, m := range matches {
		out[i] = m.photo
	}
	return out
}

func scoreRecord(photo models.PhotoRecord, terms []string) int {
	score := 0

	desc := strings.ToLower(photo.Description)
	for _, term := range terms {
		if strings.Contains(desc, term) {
			score += descriptionWeight
		}
	}

	title := strings.ToLower(photo.Title)
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleWeight
		}
	}

	for _, tag := range photo.Tags {
		lowered := strings.ToLower(tag)
		for _, term := range terms {
			if strings.Contains(lowered, term) {
				score += tagWeight
			}
		}
	}

	// Category contributes at most once per record.
	category := strings.ToLower(photo.Category)
	for _, term := range terms {
		if strings.Contains(category, term) {
			score += categoryWeight
			break
		}
	}

	return score
}
