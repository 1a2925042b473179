package storage

import "fmt"

// Lookup tables map a unique text value to a surrogate id; Listing is the
// fact table referencing them.
func schemaStatements(d Dialect) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS Category (
			%s,
			name TEXT NOT NULL UNIQUE
		)`, d.IDColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS CostTier (
			%s,
			symbol TEXT NOT NULL UNIQUE
		)`, d.IDColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS Location (
			%s,
			name TEXT NOT NULL UNIQUE
		)`, d.IDColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS Listing (
			%s,
			name        TEXT    NOT NULL UNIQUE,
			url         TEXT    NOT NULL UNIQUE,
			category_id INTEGER NOT NULL REFERENCES Category (id),
			cost_id     INTEGER NOT NULL REFERENCES CostTier (id),
			location_id INTEGER NOT NULL REFERENCES Location (id),
			address     TEXT    NOT NULL
		)`, d.IDColumn),
		`CREATE INDEX IF NOT EXISTS idx_listing_category ON Listing (category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_listing_cost     ON Listing (cost_id)`,
		`CREATE INDEX IF NOT EXISTS idx_listing_location ON Listing (location_id)`,
	}
}

// lookup describes one lookup table.
type lookup struct {
	table  string
	column string
}

var (
	categoryTable = lookup{table: "Category", column: "name"}
	costTable     = lookup{table: "CostTier", column: "symbol"}
	locationTable = lookup{table: "Location", column: "name"}
)
