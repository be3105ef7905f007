package catalog

import (
	"testing"

	"brookschat/internal/models"
)

func testCatalog(t *testing.T, records string) *Catalog {
	t.Helper()
	c, err := parse([]byte(records))
	if err != nil {
		t.Fatalf("parse test catalog: %v", err)
	}
	return c
}

func TestSearchEmptyQuery(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Search("", 5); len(got) != 0 {
		t.Fatalf("empty query returned %d results", len(got))
	}
	if got := c.Search("   \t  ", 5); len(got) != 0 {
		t.Fatalf("whitespace query returned %d results", len(got))
	}
}

func TestSearchLimit(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := c.Search("garden", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	// limit <= 0 falls back to the default.
	got = c.Search("garden", 0)
	if len(got) != defaultLimit {
		t.Fatalf("expected %d results with zero limit, got %d", defaultLimit, len(got))
	}
}

func TestSearchExcludesZeroScores(t *testing.T) {
	c := testCatalog(t, `[
		{"id": "p1", "filename": "p1.jpg", "title": "Sailfish", "description": "a fish I caught in florida", "category": "other", "tags": ["sailfish", "other"]},
		{"id": "p2", "filename": "p2.jpg", "title": "Garden Bed", "description": "raised beds in spring", "category": "gardening", "tags": ["garden"]}
	]`)
	got := c.Search("sailfish", 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Title != "Sailfish" {
		t.Fatalf("expected Sailfish, got %q", got[0].Title)
	}
}

func TestSearchRanking(t *testing.T) {
	c := testCatalog(t, `[
		{"id": "p1", "filename": "p1.jpg", "title": "Sailfish", "description": "a fish I caught in florida", "category": "other", "tags": ["sailfish", "other"]},
		{"id": "p2", "filename": "p2.jpg", "title": "Fishing at Sunset", "description": "an evening fishing trip on the bay", "category": "fishing", "tags": ["fishing", "boat"]}
	]`)
	got := c.Search("tell me about fishing trips", 5)
	if len(got) != 1 {
		t.Fatalf("expected only the fishing photo, got %d results", len(got))
	}
	if got[0].Title != "Fishing at Sunset" {
		t.Fatalf("expected Fishing at Sunset first, got %q", got[0].Title)
	}
}

func TestSearchStableTieOrder(t *testing.T) {
	c := testCatalog(t, `[
		{"id": "a", "filename": "a.jpg", "title": "Harbor Walk", "description": "walking the harbor", "category": "travel", "tags": []},
		{"id": "b", "filename": "b.jpg", "title": "Harbor View", "description": "view of the harbor", "category": "travel", "tags": []},
		{"id": "c", "filename": "c.jpg", "title": "Harbor Dusk", "description": "dusk at the harbor", "category": "travel", "tags": []}
	]`)
	got := c.Search("harbor", 5)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, got[i].ID)
		}
	}
}

func TestScoreRecordWeights(t *testing.T) {
	photo := models.PhotoRecord{
		Title:       "Sailfish",
		Description: "a fish I caught in florida",
		Category:    "fishing",
		Tags:        []string{"sailfish", "ocean"},
	}
	cases := []struct {
		terms []string
		want  int
	}{
		// title 5 + tag 2
		{[]string{"sailfish"}, 7},
		// description 3 + title 5 + tag 2 + category 4
		{[]string{"fish"}, 14},
		// repeated terms compound everything except category
		{[]string{"fish", "fish"}, 24},
		// category matches once even with several matching terms
		{[]string{"fishing", "fish"}, 14},
		{[]string{"carrots"}, 0},
	}
	for _, tc := range cases {
		if got := scoreRecord(photo, tc.terms); got != tc.want {
			t.Fatalf("scoreRecord(%v) = %d, want %d", tc.terms, got, tc.want)
		}
	}
}
