// Package scraper walks a paginated restaurant directory and enriches each
// listing from its detail page.
package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"restaurant-catalog/config"
	"restaurant-catalog/fetch"
	"restaurant-catalog/metrics"
	"restaurant-catalog/models"
	"restaurant-catalog/utils"
)

// Crawler extracts one ListingRecord per directory card, following the
// next-page link until there is none.
type Crawler struct {
	fetcher  fetch.Fetcher
	sel      config.Selectors
	maxPages int
	logger   *utils.Logger
	metrics  *metrics.Registry
}

// NewCrawler creates a Crawler. maxPages caps traversal; 0 means no cap.
func NewCrawler(f fetch.Fetcher, sel config.Selectors, maxPages int, logger *utils.Logger, m *metrics.Registry) *Crawler {
	return &Crawler{
		fetcher:  f,
		sel:      sel,
		maxPages: maxPages,
		logger:   logger,
		metrics:  m,
	}
}

// Crawl returns every listing reachable from startURL in page order, then
// card order. Any page fetch failure aborts the crawl with a *fetch.FetchError.
func (c *Crawler) Crawl(ctx context.Context, startURL string) ([]models.ListingRecord, error) {
	var out []models.ListingRecord
	err := c.Walk(ctx, startURL, func(r models.ListingRecord) error {
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Walk streams listings to fn in the same order as Crawl. The next page is
// only fetched after the current one has been fully handed to fn. An error
// from fn stops the walk and is returned unchanged.
func (c *Crawler) Walk(ctx context.Context, startURL string, fn func(models.ListingRecord) error) error {
	visited := utils.NewURLSet()
	cursor := startURL

	for page := 1; cursor != ""; page++ {
		if !visited.Add(cursor) {
			c.logger.Warn("[crawler] Next link points back to %s, stopping", cursor)
			break
		}

		c.logger.Info("[crawler] Page %d: %s", page, cursor)
		res, err := c.fetcher.Fetch(ctx, cursor)
		if err != nil {
			c.metrics.FetchFailures.WithLabelValues(fetch.StageDirectory).Inc()
			return &fetch.FetchError{Stage: fetch.StageDirectory, URL: cursor, Err: err}
		}
		c.metrics.PagesFetched.WithLabelValues(fetch.StageDirectory).Inc()

		doc, err := ParseDocument(res)
		if err != nil {
			return fmt.Errorf("crawler: parse %s: %w", cursor, err)
		}

		cards := doc.Find(c.sel.Card)
		if cards.Length() == 0 {
			c.logger.Warn("[crawler] Page %d has no cards matching %q", page, c.sel.Card)
		}

		var stop error
		cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
			rec := c.extractCard(doc, card, res.URL)
			c.metrics.RecordsCrawled.Inc()
			if err := fn(rec); err != nil {
				stop = err
				return false
			}
			return true
		})
		if stop != nil {
			return stop
		}
		c.logger.Debug("[crawler] Page %d done, %d cards", page, cards.Length())

		if c.maxPages > 0 && page >= c.maxPages {
			c.logger.Info("[crawler] Reached page limit %d", c.maxPages)
			break
		}
		cursor = c.nextPage(doc)
	}
	c.logger.Info("[crawler] %s: done after %d pages", startURL, visited.Size())
	return nil
}

func (c *Crawler) extractCard(doc *Document, card *goquery.Selection, pageURL string) models.ListingRecord {
	var fields models.ListingFields

	if name, ok := text(card, c.sel.Name); ok && name != "" {
		fields.Name = name
	} else {
		c.malformed(&MalformedFieldError{URL: pageURL, Field: "name"})
	}

	href, _ := card.Find(c.sel.Link).First().Attr("href")
	if abs, ok := doc.Resolve(href); ok {
		fields.URL = abs
	} else {
		c.malformed(&MalformedFieldError{URL: pageURL, Field: "url", Raw: href})
	}

	if loc, ok := text(card, c.sel.Location); ok && loc != "" {
		fields.Location = loc
	} else {
		c.malformed(&MalformedFieldError{URL: pageURL, Field: "location"})
	}

	rec := models.NewListingRecord(fields)

	raw, ok := text(card, c.sel.CostLine)
	if !ok {
		c.malformed(&MalformedFieldError{URL: pageURL, Field: "cost_category"})
		return rec
	}
	cost, cuisine, err := SplitCostCategory(raw, c.sel.Separator)
	if err != nil {
		var mf *MalformedFieldError
		if errors.As(err, &mf) {
			mf.URL = pageURL
		}
		c.malformed(err)
	}
	rec.Cost, rec.Cuisine = cost, cuisine
	return rec
}

func (c *Crawler) nextPage(doc *Document) string {
	link := doc.Find(c.sel.NextPage).First()
	if link.Length() == 0 {
		return ""
	}
	href, _ := link.Attr("href")
	next, ok := doc.Resolve(href)
	if !ok {
		c.logger.Warn("[crawler] Next-page link has unusable href %q", href)
		return ""
	}
	return next
}

func (c *Crawler) malformed(err error) {
	field := "unknown"
	var mf *MalformedFieldError
	if errors.As(err, &mf) {
		field = mf.Field
	}
	c.metrics.MalformedFields.WithLabelValues(field).Inc()
	c.logger.Warn("[crawler] %v", err)
}
