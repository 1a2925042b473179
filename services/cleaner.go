package services

import (
	"strings"
	"unicode"

	"restaurant-catalog/models"
	"restaurant-catalog/utils"
)

// Cleaner normalises crawled records and drops the ones that cannot be
// enriched or were already seen under another start URL.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean returns the records in their original order, with whitespace
// collapsed, records without a detail URL dropped and repeated URLs kept
// only at their first occurrence.
func (c *Cleaner) Clean(raw []models.ListingRecord) []models.ListingRecord {
	seen := utils.NewURLSet()
	result := make([]models.ListingRecord, 0, len(raw))

	for _, r := range raw {
		url, ok := r.URL.Get()
		if !ok {
			c.logger.Warn("[cleaner] Dropping listing without detail URL: %s", r.Name)
			continue
		}

		if !seen.Add(url) {
			c.logger.Debug("[cleaner] Duplicate URL skipped: %s", url)
			continue
		}

		r.Name = normaliseText(r.Name)
		r.Location = normaliseText(r.Location)
		r.Cost = normaliseText(r.Cost)
		r.Cuisine = normaliseText(r.Cuisine)
		result = append(result, r)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// normaliseText strips leading/trailing whitespace and collapses internal
// whitespace. Absent values stay absent.
func normaliseText(t models.Text) models.Text {
	s, ok := t.Get()
	if !ok {
		return t
	}
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return models.TextOf(strings.Join(fields, " "))
}
