package scraper

import (
	"strings"

	"restaurant-catalog/models"
)

// DefaultSeparator separates cost and cuisine in a directory card footer.
const DefaultSeparator = "·"

// SplitCostCategory splits a "cost · cuisine" footer into its two parts.
// Anything other than exactly two non-empty parts is malformed and yields
// two absent values.
func SplitCostCategory(raw, sep string) (cost, cuisine models.Text, err error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	parts := strings.Split(raw, sep)
	if len(parts) != 2 {
		return models.None(), models.None(), &MalformedFieldError{Field: "cost_category", Raw: raw}
	}
	c, k := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if c == "" || k == "" {
		return models.None(), models.None(), &MalformedFieldError{Field: "cost_category", Raw: raw}
	}
	return models.Some(c), models.Some(k), nil
}
