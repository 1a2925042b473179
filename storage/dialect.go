package storage

import (
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	Name       string
	DriverName string
	// IDColumn is the surrogate key column definition.
	IDColumn string
	// numbered placeholders ($1, $2...) instead of ?
	numbered bool
}

var (
	SQLite = Dialect{
		Name:       "sqlite",
		DriverName: "sqlite",
		IDColumn:   "id INTEGER PRIMARY KEY",
	}
	Postgres = Dialect{
		Name:       "postgres",
		DriverName: "postgres",
		IDColumn:   "id SERIAL PRIMARY KEY",
		numbered:   true,
	}
)

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("storage: unknown db driver %q", name)
}

// Rebind rewrites ? placeholders for dialects that number them.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
