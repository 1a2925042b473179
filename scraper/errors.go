package scraper

import "fmt"

// MalformedFieldError is an expected element that was missing or had an
// unexpected shape on a page that otherwise loaded fine. The field falls
// back to its default; the error is logged and counted but never returned
// from Crawl or Enrich.
type MalformedFieldError struct {
	URL   string
	Field string
	Raw   string
}

func (e *MalformedFieldError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("malformed %s on %s: element missing", e.Field, e.URL)
	}
	return fmt.Sprintf("malformed %s on %s: %q", e.Field, e.URL, e.Raw)
}
