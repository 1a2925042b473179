package config

import (
	"strings"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("START_URLS", "")
	t.Setenv("DB_DRIVER", "")
	cfg := FromEnv()

	if len(cfg.StartURLs) != len(DefaultStartURLs) {
		t.Fatalf("StartURLs: got %d, want %d", len(cfg.StartURLs), len(DefaultStartURLs))
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver: got %q, want sqlite", cfg.DBDriver)
	}
	if cfg.DSN() != cfg.DBPath {
		t.Errorf("sqlite DSN should be the file path, got %q", cfg.DSN())
	}
	if cfg.Selectors.Separator != "·" {
		t.Errorf("Separator: got %q", cfg.Selectors.Separator)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("START_URLS", " https://a.example/list , ,https://b.example/list")
	t.Setenv("MAX_PAGES", "3")
	t.Setenv("LOG_DEBUG", "true")
	t.Setenv("RATE_LIMIT_MS", "not-a-number")
	t.Setenv("SELECTOR_CARD", "li.item")

	cfg := FromEnv()
	if len(cfg.StartURLs) != 2 || cfg.StartURLs[1] != "https://b.example/list" {
		t.Errorf("StartURLs: got %#v", cfg.StartURLs)
	}
	if cfg.MaxPages != 3 {
		t.Errorf("MaxPages: got %d, want 3", cfg.MaxPages)
	}
	if !cfg.LogDebug {
		t.Error("LogDebug should be true")
	}
	if cfg.RateLimitMs != 1000 {
		t.Errorf("invalid int should fall back, got %d", cfg.RateLimitMs)
	}
	if cfg.Selectors.Card != "li.item" {
		t.Errorf("Card selector: got %q", cfg.Selectors.Card)
	}
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_DB", "catalog")
	cfg := FromEnv()
	want := "host=localhost port=5432 user=scraper password=scraper123 dbname=catalog sslmode=disable"
	if cfg.DSN() != want {
		t.Errorf("DSN: got %q, want %q", cfg.DSN(), want)
	}
}

func TestDriverAliases(t *testing.T) {
	tests := map[string]string{
		"":           "sqlite",
		"sqlite3":    "sqlite",
		"pg":         "postgres",
		"postgresql": "postgres",
		"Postgres":   "postgres",
		"mysql":      "mysql",
	}
	for in, want := range tests {
		if got := NormaliseDriver(in); got != want {
			t.Errorf("NormaliseDriver(%q) = %q; want %q", in, got, want)
		}
	}

	for _, alias := range []string{"pg", "postgresql"} {
		t.Setenv("DB_DRIVER", alias)
		cfg := FromEnv()
		if cfg.DBDriver != "postgres" {
			t.Errorf("DB_DRIVER=%s: DBDriver = %q", alias, cfg.DBDriver)
		}
		if !strings.HasPrefix(cfg.DSN(), "host=") {
			t.Errorf("DB_DRIVER=%s: want postgres DSN, got %q", alias, cfg.DSN())
		}
	}

	cfg := &Config{DBDriver: "pg", DBPath: "restaurants.db", PostgresHost: "db"}
	if !strings.HasPrefix(cfg.DSN(), "host=db ") {
		t.Errorf("unnormalised alias should still get a postgres DSN, got %q", cfg.DSN())
	}
}
