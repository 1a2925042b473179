package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultStartURLs are the Michelin Guide city listings the catalog was built for.
var DefaultStartURLs = []string{
	"https://guide.michelin.com/us/en/california/san-jose/restaurants",
	"https://guide.michelin.com/us/en/california/cupertino/restaurants",
}

// Selectors are the CSS selectors describing the directory and detail page
// layout. The site can change them without notice, so every one of them is
// overridable from the environment.
type Selectors struct {
	Card      string
	Name      string
	Link      string
	Location  string
	CostLine  string
	NextPage  string
	Address   string
	Separator string
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StartURLs  []string
	OutputPath string

	DBDriver string
	DBPath   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	Fetcher          string
	ChromeBin        string
	UserAgent        string
	RequestTimeoutMs int
	RateLimitMs      int
	MaxPages         int

	EnrichPolicy string
	RetryDelayMs int

	MetricsAddr string
	LogDebug    bool

	Selectors Selectors
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		StartURLs:  getEnvList("START_URLS", DefaultStartURLs),
		OutputPath: getEnv("OUTPUT_PATH", "./output/restaurants.json"),

		DBDriver: NormaliseDriver(getEnv("DB_DRIVER", "sqlite")),
		DBPath:   getEnv("DB_PATH", "restaurants.db"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "restaurants"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		Fetcher:   getEnv("FETCHER", "http"),
		ChromeBin: getEnv("CHROME_BIN", ""),
		UserAgent: getEnv("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		RequestTimeoutMs: getEnvInt("REQUEST_TIMEOUT_MS", 30000),
		RateLimitMs:      getEnvInt("RATE_LIMIT_MS", 1000),
		MaxPages:         getEnvInt("MAX_PAGES", 0),

		EnrichPolicy: getEnv("ENRICH_POLICY", "skip"),
		RetryDelayMs: getEnvInt("RETRY_DELAY_MS", 2000),

		MetricsAddr: getEnv("METRICS_ADDR", ""),
		LogDebug:    getEnvBool("LOG_DEBUG", false),

		Selectors: selectorsFromEnv(DefaultSelectors()),
	}
}

// DefaultSelectors matches the Michelin Guide markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Card:      "div.card__menu.js-restaurant__list_item",
		Name:      "div.card__menu-content h3.card__menu-content--title",
		Link:      "a.link",
		Location:  "div.card__menu-footer--location",
		CostLine:  "div.card__menu-footer--price",
		NextPage:  "div.btn-carousel a.btn-carousel__link[href*='/page/'][href]:has(span.icon.fal.fa-angle-right)",
		Address:   "li.restaurant-details__heading--address",
		Separator: "·",
	}
}

func selectorsFromEnv(def Selectors) Selectors {
	return Selectors{
		Card:      getEnv("SELECTOR_CARD", def.Card),
		Name:      getEnv("SELECTOR_NAME", def.Name),
		Link:      getEnv("SELECTOR_LINK", def.Link),
		Location:  getEnv("SELECTOR_LOCATION", def.Location),
		CostLine:  getEnv("SELECTOR_COST_LINE", def.CostLine),
		NextPage:  getEnv("SELECTOR_NEXT_PAGE", def.NextPage),
		Address:   getEnv("SELECTOR_ADDRESS", def.Address),
		Separator: getEnv("COST_SEPARATOR", def.Separator),
	}
}

// NormaliseDriver maps the accepted driver aliases onto "sqlite" or
// "postgres". Unknown names are returned lowercased for the store to reject.
func NormaliseDriver(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", "sqlite", "sqlite3":
		return "sqlite"
	case "postgres", "postgresql", "pg":
		return "postgres"
	default:
		return n
	}
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if NormaliseDriver(c.DBDriver) == "postgres" {
		return "host=" + c.PostgresHost +
			" port=" + c.PostgresPort +
			" user=" + c.PostgresUser +
			" password=" + c.PostgresPassword +
			" dbname=" + c.PostgresDB +
			" sslmode=" + c.PostgresSSLMode
	}
	return c.DBPath
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
