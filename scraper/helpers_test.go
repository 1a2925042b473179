package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"restaurant-catalog/config"
	"restaurant-catalog/fetch"
	"restaurant-catalog/metrics"
	"restaurant-catalog/utils"
)

// fakeFetcher serves canned HTML keyed by URL and records the fetch order.
type fakeFetcher struct {
	pages   map[string]string
	fail    map[string]error
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*fetch.Page, error) {
	f.fetched = append(f.fetched, url)
	if err, ok := f.fail[url]; ok {
		return nil, err
	}
	body, ok := f.pages[url]
	if !ok {
		return nil, &fetch.StatusError{Code: 404}
	}
	return &fetch.Page{URL: url, Status: 200, ContentType: "text/html; charset=utf-8", Body: []byte(body)}, nil
}

type card struct {
	name, href, location, price string
}

func cardHTML(c card) string {
	var b strings.Builder
	b.WriteString(`<div class="card__menu box-placeholder js-restaurant__list_item js-match-height js-map">`)
	b.WriteString(`<div class="card__menu-content">`)
	if c.name != "" {
		fmt.Fprintf(&b, `<h3 class="card__menu-content--title"><a href="%s"> %s </a></h3>`, c.href, c.name)
	}
	if c.href != "" {
		fmt.Fprintf(&b, `<a class="link" href="%s"></a>`, c.href)
	}
	fmt.Fprintf(&b, `<div class="card__menu-footer--location">%s</div>`, c.location)
	if c.price != "" {
		fmt.Fprintf(&b, `<div class="card__menu-footer--price">%s</div>`, c.price)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func directoryHTML(next, prev string, cards ...card) string {
	var b strings.Builder
	b.WriteString(`<!doctype html><html><head><meta charset="utf-8"></head><body>`)
	for _, c := range cards {
		b.WriteString(cardHTML(c))
	}
	b.WriteString(`<div class="btn-carousel">`)
	if prev != "" {
		fmt.Fprintf(&b, `<a class="btn-carousel__link" href="%s"><span class="icon fal fa-angle-left"></span></a>`, prev)
	}
	if next != "" {
		fmt.Fprintf(&b, `<a class="btn-carousel__link" href="%s"><span class="icon fal fa-angle-right"></span></a>`, next)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func detailHTML(address string) string {
	if address == "" {
		return `<html><body><ul><li class="restaurant-details__heading--price">$$</li></ul></body></html>`
	}
	return fmt.Sprintf(`<html><body><ul><li class="restaurant-details__heading--address">
		%s
	</li></ul></body></html>`, address)
}

func testDeps() (config.Selectors, *utils.Logger, *metrics.Registry) {
	return config.DefaultSelectors(), utils.NewLoggerTo(&bytes.Buffer{}), metrics.NewRegistry()
}
