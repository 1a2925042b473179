package services

import (
	"bytes"
	"testing"

	"restaurant-catalog/models"
	"restaurant-catalog/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(&bytes.Buffer{}) }

func TestNormaliseText(t *testing.T) {
	tests := []struct {
		in   models.Text
		want models.Text
	}{
		{models.Some("  Pizzeria\n\t Delfina "), models.Some("Pizzeria Delfina")},
		{models.Some("San Jose, USA"), models.Some("San Jose, USA")},
		{models.Some(" \n "), models.None()},
		{models.None(), models.None()},
	}

	for _, tt := range tests {
		if got := normaliseText(tt.in); got != tt.want {
			t.Errorf("normaliseText(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanerDropsMissingURL(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []models.ListingRecord{
		models.NewListingRecord(models.ListingFields{Name: "No URL"}),
		models.NewListingRecord(models.ListingFields{Name: "Has URL", URL: "https://g.example/r/1"}),
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 listing after dropping missing URL, got %d", len(cleaned))
	}
	if cleaned[0].Name.String() != "Has URL" {
		t.Errorf("kept the wrong record: %s", cleaned[0].Name)
	}
}

func TestCleanerDeduplicatesURLKeepingFirst(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []models.ListingRecord{
		models.NewListingRecord(models.ListingFields{Name: "A", URL: "https://g.example/r/1", Location: "San Jose"}),
		models.NewListingRecord(models.ListingFields{Name: "B", URL: "https://g.example/r/2"}),
		models.NewListingRecord(models.ListingFields{Name: "A again", URL: "https://g.example/r/1", Location: "Cupertino"}),
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 2 {
		t.Fatalf("expected 2 listings after deduplication, got %d", len(cleaned))
	}
	if cleaned[0].Location.String() != "San Jose" || cleaned[1].Name.String() != "B" {
		t.Errorf("order or first-wins broken: %+v", cleaned)
	}
}
