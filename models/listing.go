package models

// ListingRecord is one restaurant as it moves between pipeline stages.
// The crawler fills everything except Address; the enricher fills Address.
// Field defaults:
//   - Name, Location, Cost, Cuisine: absent when extraction fails, stored as "N/A"
//   - URL: absolute detail-page URL, absent when the card has no link
//   - Address: absent until enrichment ran, Some("") when the detail page has none
type ListingRecord struct {
	Name     Text `json:"name"`
	URL      Text `json:"url"`
	Location Text `json:"location"`
	Cost     Text `json:"cost"`
	Cuisine  Text `json:"cuisine"`
	Address  Text `json:"address"`
}

// ListingFields is the raw input for NewListingRecord. Blank strings mean
// the field could not be extracted.
type ListingFields struct {
	Name     string
	URL      string
	Location string
}

// NewListingRecord builds a crawl-stage record. Cost, Cuisine and Address
// start absent.
func NewListingRecord(f ListingFields) ListingRecord {
	return ListingRecord{
		Name:     TextOf(f.Name),
		URL:      TextOf(f.URL),
		Location: TextOf(f.Location),
	}
}

// Complete reports whether both crawl and enrichment have run.
func (r ListingRecord) Complete() bool {
	return r.Address.Valid()
}

// Dimension selects one of the lookup tables.
type Dimension string

const (
	DimensionLocation Dimension = "location"
	DimensionCategory Dimension = "category"
	DimensionCost     Dimension = "cost"
)

// ParseDimension accepts the dimension names plus the "city" and "cuisine"
// aliases used by the browser.
func ParseDimension(s string) (Dimension, bool) {
	switch s {
	case "location", "city", "cities", "locations":
		return DimensionLocation, true
	case "category", "cuisine", "cuisines", "categories":
		return DimensionCategory, true
	case "cost", "costs", "price":
		return DimensionCost, true
	}
	return "", false
}

// ListingRef is a row of a filtered listing query.
type ListingRef struct {
	ID   int64
	Name string
	URL  string
}

// ListingDetail is the fully decoded view of one stored listing.
type ListingDetail struct {
	ID           int64
	Name         string
	Address      string
	CostSymbol   string
	CategoryName string
	Location     string
	URL          string
}

// DimensionCount is the number of stored listings per dimension value.
type DimensionCount struct {
	Value string
	Count int
}

// UpsertReport summarises one UpsertBatch call.
type UpsertReport struct {
	Inserted int
	// Skipped counts rows whose name or url already existed.
	Skipped int
	// Rejected counts records that never went through enrichment.
	Rejected      int
	RejectedNames []string
}

// InsightReport holds per-dimension counts over the stored catalog.
type InsightReport struct {
	TotalListings int
	ByLocation    []DimensionCount
	ByCuisine     []DimensionCount
	ByCost        []DimensionCount
}
