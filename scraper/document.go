package scraper

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"restaurant-catalog/fetch"
)

// Document is a parsed page with its base URL for resolving links.
type Document struct {
	*goquery.Document
	base *url.URL
}

// ParseDocument decodes the page body to UTF-8 and parses it.
func ParseDocument(page *fetch.Page) (*Document, error) {
	data := page.Body
	enc, _, _ := charset.DetermineEncoding(data, page.ContentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, err
	}
	return &Document{Document: doc, base: base}, nil
}

// Resolve turns an href found on the page into an absolute URL.
func (d *Document) Resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return d.base.ResolveReference(ref).String(), true
}

// text returns the trimmed text of the first match of selector within s.
func text(s *goquery.Selection, selector string) (string, bool) {
	sel := s.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}
