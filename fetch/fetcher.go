// Package fetch retrieves pages for the scraper, either with a plain HTTP
// client or through a headless browser.
package fetch

import (
	"context"
	"fmt"
)

// Page is the raw result of a successful fetch.
type Page struct {
	// URL is the final URL after redirects.
	URL         string
	Status      int
	ContentType string
	Body        []byte
}

// Fetcher retrieves a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// StatusError reports a response outside the 2xx/3xx range.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d", e.Code)
}

// Stage names used in FetchError.
const (
	StageDirectory = "directory"
	StageDetail    = "detail"
)

// FetchError is a failure to reach a page. It carries the URL and pipeline
// stage so the operator can retry by hand.
type FetchError struct {
	Stage string
	URL   string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s page %s: %v", e.Stage, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
