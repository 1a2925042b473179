package scraper

import (
	"context"
	"errors"
	"fmt"

	"restaurant-catalog/fetch"
	"restaurant-catalog/metrics"
	"restaurant-catalog/models"
	"restaurant-catalog/utils"
)

// ErrNoDetailURL is wrapped in the FetchError for records without a link.
var ErrNoDetailURL = errors.New("record has no detail url")

// Enricher completes a record with the postal address from its detail page.
type Enricher struct {
	fetcher         fetch.Fetcher
	addressSelector string
	logger          *utils.Logger
	metrics         *metrics.Registry
}

func NewEnricher(f fetch.Fetcher, addressSelector string, logger *utils.Logger, m *metrics.Registry) *Enricher {
	return &Enricher{
		fetcher:         f,
		addressSelector: addressSelector,
		logger:          logger,
		metrics:         m,
	}
}

// Enrich returns a copy of rec with Address set. A detail page without an
// address element yields an empty address, not an error. Only Address is
// ever changed.
func (e *Enricher) Enrich(ctx context.Context, rec models.ListingRecord) (models.ListingRecord, error) {
	u, ok := rec.URL.Get()
	if !ok {
		return rec, &fetch.FetchError{Stage: fetch.StageDetail, URL: models.NotAvailable, Err: ErrNoDetailURL}
	}

	res, err := e.fetcher.Fetch(ctx, u)
	if err != nil {
		e.metrics.FetchFailures.WithLabelValues(fetch.StageDetail).Inc()
		return rec, &fetch.FetchError{Stage: fetch.StageDetail, URL: u, Err: err}
	}
	e.metrics.PagesFetched.WithLabelValues(fetch.StageDetail).Inc()

	doc, err := ParseDocument(res)
	if err != nil {
		return rec, fmt.Errorf("enricher: parse %s: %w", u, err)
	}

	addr, found := text(doc.Selection, e.addressSelector)
	if !found {
		e.metrics.MalformedFields.WithLabelValues("address").Inc()
		e.logger.Warn("[enricher] %v", &MalformedFieldError{URL: u, Field: "address"})
	}

	out := rec
	out.Address = models.Some(addr)
	e.metrics.RecordsEnriched.Inc()
	e.logger.Debug("[enricher] %s -> %q", rec.Name, addr)
	return out, nil
}
