package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"restaurant-catalog/metrics"
	"restaurant-catalog/models"
	"restaurant-catalog/utils"
)

// SchemaError means the store could not be opened or its schema could not
// be created. Nothing else should run after one.
type SchemaError struct {
	Op  string
	Err error
}

func (e *SchemaError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *SchemaError) Unwrap() error { return e.Err }

// Store persists enriched listings into the normalized schema and answers
// the browser's read queries. It owns a single connection.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *utils.Logger
	metrics *metrics.Registry
}

// Open connects to the database, waits for it to answer and creates the
// schema if needed.
func Open(ctx context.Context, driver, dsn string, logger *utils.Logger, m *metrics.Registry) (*Store, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, &SchemaError{Op: "open", Err: err}
	}

	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, &SchemaError{Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)

	// A freshly started postgres container needs a moment before it accepts
	// connections; a sqlite file either opens or it doesn't.
	attempts := 1
	if d == Postgres {
		attempts = 10
	}
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		if i+1 < attempts {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, &SchemaError{Op: "ping", Err: err}
	}

	s := New(db, d, logger, m)
	if err := s.InitSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already open database.
func New(db *sql.DB, d Dialect, logger *utils.Logger, m *metrics.Registry) *Store {
	return &Store{db: db, dialect: d, logger: logger, metrics: m}
}

func (s *Store) q(query string) string { return s.dialect.Rebind(query) }

// InitSchema creates the tables and foreign-key indexes if they do not
// exist yet. Running it against an existing store is a no-op.
func (s *Store) InitSchema(ctx context.Context) error {
	if s.dialect == SQLite {
		if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			return &SchemaError{Op: "enable foreign keys", Err: err}
		}
	}
	for _, stmt := range schemaStatements(s.dialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &SchemaError{Op: "init schema", Err: err}
		}
	}
	return nil
}

// UpsertBatch inserts records in order inside one transaction. Lookup values
// are resolved or inserted first (first writer wins). A listing whose name or
// url already exists is skipped, and a record that never went through
// enrichment is rejected. Any SQL error rolls back the whole batch, so no
// listing row is ever committed without its lookup rows.
func (s *Store) UpsertBatch(ctx context.Context, records []models.ListingRecord) (models.UpsertReport, error) {
	var report models.UpsertReport
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("storage: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertListing := s.q(`
		INSERT INTO Listing (name, url, category_id, cost_id, location_id, address)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)

	for _, r := range records {
		name := r.Name.Or(models.NotAvailable)
		if !r.Complete() {
			s.logger.Warn("[store] Rejecting %q: record was never enriched", name)
			report.Rejected++
			report.RejectedNames = append(report.RejectedNames, name)
			continue
		}

		categoryID, err := s.resolve(ctx, tx, categoryTable, r.Cuisine.Or(models.NotAvailable))
		if err != nil {
			return models.UpsertReport{}, err
		}
		costID, err := s.resolve(ctx, tx, costTable, r.Cost.Or(models.NotAvailable))
		if err != nil {
			return models.UpsertReport{}, err
		}
		locationID, err := s.resolve(ctx, tx, locationTable, r.Location.Or(models.NotAvailable))
		if err != nil {
			return models.UpsertReport{}, err
		}

		address, _ := r.Address.Get()
		res, err := tx.ExecContext(ctx, insertListing,
			name, r.URL.Or(models.NotAvailable), categoryID, costID, locationID, address)
		if err != nil {
			return models.UpsertReport{}, fmt.Errorf("storage: insert listing %q: %w", name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return models.UpsertReport{}, fmt.Errorf("storage: insert listing %q: %w", name, err)
		}
		if n == 0 {
			s.logger.Debug("[store] Already present, skipped: %s", name)
			report.Skipped++
			continue
		}
		report.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return models.UpsertReport{}, fmt.Errorf("storage: commit: %w", err)
	}

	s.metrics.RowsInserted.Add(float64(report.Inserted))
	s.metrics.RowsSkipped.Add(float64(report.Skipped))
	s.metrics.RowsRejected.Add(float64(report.Rejected))
	s.metrics.BatchDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("[store] Upserted %d records: %d inserted, %d skipped, %d rejected",
		len(records), report.Inserted, report.Skipped, report.Rejected)
	return report, nil
}

// resolve returns the id of value in the lookup table, inserting it first
// if it is new.
func (s *Store) resolve(ctx context.Context, tx *sql.Tx, l lookup, value string) (int64, error) {
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?) ON CONFLICT DO NOTHING", l.table, l.column)
	if _, err := tx.ExecContext(ctx, s.q(insert), value); err != nil {
		return 0, fmt.Errorf("storage: insert %s %q: %w", l.table, value, err)
	}

	var id int64
	sel := fmt.Sprintf("SELECT id FROM %s WHERE %s = ?", l.table, l.column)
	if err := tx.QueryRowContext(ctx, s.q(sel), value).Scan(&id); err != nil {
		return 0, fmt.Errorf("storage: resolve %s %q: %w", l.table, value, err)
	}
	return id, nil
}

func dimensionTable(dim models.Dimension) (lookup, string, error) {
	switch dim {
	case models.DimensionLocation:
		return locationTable, "location_id", nil
	case models.DimensionCategory:
		return categoryTable, "category_id", nil
	case models.DimensionCost:
		return costTable, "cost_id", nil
	}
	return lookup{}, "", fmt.Errorf("storage: unknown dimension %q", dim)
}

// ListDistinct returns each dimension value used by at least one stored
// listing, once, in the order the values were first stored.
func (s *Store) ListDistinct(ctx context.Context, dim models.Dimension) ([]string, error) {
	l, fk, err := dimensionTable(dim)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT t.%[1]s FROM %[2]s t
		WHERE EXISTS (SELECT 1 FROM Listing l WHERE l.%[3]s = t.id)
		ORDER BY t.id
	`, l.column, l.table, fk)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", dim, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("storage: scan %s: %w", dim, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// ListByDimension returns the listings whose dimension equals value, in
// insertion order. No match is an empty slice.
func (s *Store) ListByDimension(ctx context.Context, dim models.Dimension, value string) ([]models.ListingRef, error) {
	l, fk, err := dimensionTable(dim)
	if err != nil {
		return nil, err
	}
	query := s.q(fmt.Sprintf(`
		SELECT l.id, l.name, l.url FROM Listing l
		JOIN %[1]s t ON l.%[2]s = t.id
		WHERE t.%[3]s = ?
		ORDER BY l.id
	`, l.table, fk, l.column))

	rows, err := s.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("storage: list by %s: %w", dim, err)
	}
	defer rows.Close()

	refs := []models.ListingRef{}
	for rows.Next() {
		var r models.ListingRef
		if err := rows.Scan(&r.ID, &r.Name, &r.URL); err != nil {
			return nil, fmt.Errorf("storage: scan listing: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

const detailQuery = `
	SELECT l.id, l.name, l.address, c.symbol, k.name, loc.name, l.url
	FROM Listing l
	JOIN CostTier c   ON l.cost_id = c.id
	JOIN Category k   ON l.category_id = k.id
	JOIN Location loc ON l.location_id = loc.id
`

// GetDetail looks a listing up by numeric id, falling back to its name.
// found is false when nothing matches.
func (s *Store) GetDetail(ctx context.Context, nameOrID string) (detail models.ListingDetail, found bool, err error) {
	if id, perr := strconv.ParseInt(nameOrID, 10, 64); perr == nil {
		detail, found, err = s.getDetail(ctx, "l.id = ?", id)
		if err != nil || found {
			return detail, found, err
		}
	}
	return s.getDetail(ctx, "l.name = ?", nameOrID)
}

func (s *Store) getDetail(ctx context.Context, where string, arg any) (models.ListingDetail, bool, error) {
	var d models.ListingDetail
	err := s.db.QueryRowContext(ctx, s.q(detailQuery+" WHERE "+where), arg).
		Scan(&d.ID, &d.Name, &d.Address, &d.CostSymbol, &d.CategoryName, &d.Location, &d.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ListingDetail{}, false, nil
	}
	if err != nil {
		return models.ListingDetail{}, false, fmt.Errorf("storage: get detail: %w", err)
	}
	return d, true, nil
}

// CountByDimension returns how many listings use each dimension value,
// largest first.
func (s *Store) CountByDimension(ctx context.Context, dim models.Dimension) ([]models.DimensionCount, error) {
	l, fk, err := dimensionTable(dim)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT t.%[1]s, COUNT(l.id) FROM %[2]s t
		JOIN Listing l ON l.%[3]s = t.id
		GROUP BY t.id, t.%[1]s
		ORDER BY COUNT(l.id) DESC, t.id
	`, l.column, l.table, fk)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("storage: count by %s: %w", dim, err)
	}
	defer rows.Close()

	var counts []models.DimensionCount
	for rows.Next() {
		var c models.DimensionCount
		if err := rows.Scan(&c.Value, &c.Count); err != nil {
			return nil, fmt.Errorf("storage: scan count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountListings returns the number of stored listings.
func (s *Store) CountListings(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM Listing").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: count listings: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
