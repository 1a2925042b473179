package services

import (
	"context"
	"fmt"
	"time"

	"restaurant-catalog/metrics"
	"restaurant-catalog/models"
	"restaurant-catalog/scraper"
	"restaurant-catalog/storage"
	"restaurant-catalog/utils"
)

// EnrichPolicy decides what happens to a record whose detail page fails.
type EnrichPolicy string

const (
	EnrichSkip      EnrichPolicy = "skip"
	EnrichRetryOnce EnrichPolicy = "retry-once"
	EnrichAbort     EnrichPolicy = "abort"
)

func ParseEnrichPolicy(s string) (EnrichPolicy, error) {
	switch p := EnrichPolicy(s); p {
	case EnrichSkip, EnrichRetryOnce, EnrichAbort:
		return p, nil
	case "":
		return EnrichSkip, nil
	}
	return "", fmt.Errorf("unknown enrich policy %q (want skip, retry-once or abort)", s)
}

// Pipeline drives crawl, clean and enrich, and moves records through the
// intermediate file into the store.
type Pipeline struct {
	crawler  *scraper.Crawler
	enricher *scraper.Enricher
	cleaner  *Cleaner
	logger   *utils.Logger
	metrics  *metrics.Registry
	policy   EnrichPolicy
	retry    *utils.RetryConfig
}

func NewPipeline(c *scraper.Crawler, e *scraper.Enricher, policy EnrichPolicy, retryDelay time.Duration,
	logger *utils.Logger, m *metrics.Registry) *Pipeline {
	return &Pipeline{
		crawler:  c,
		enricher: e,
		cleaner:  NewCleaner(logger),
		logger:   logger,
		metrics:  m,
		policy:   policy,
		retry:    &utils.RetryConfig{MaxAttempts: 2, BaseDelay: retryDelay, Logger: logger},
	}
}

// Collect crawls every start URL in order, dedupes the result and enriches
// each record. A directory failure aborts the run; detail failures follow
// the configured policy.
func (p *Pipeline) Collect(ctx context.Context, startURLs []string) ([]models.ListingRecord, error) {
	var raw []models.ListingRecord
	for _, u := range startURLs {
		recs, err := p.crawler.Crawl(ctx, u)
		if err != nil {
			return nil, err
		}
		p.logger.Info("[pipeline] %s: %d listings", u, len(recs))
		raw = append(raw, recs...)
	}

	clean := p.cleaner.Clean(raw)
	out := make([]models.ListingRecord, 0, len(clean))
	for i, rec := range clean {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		enriched, err := p.enrich(ctx, rec)
		if err != nil {
			if p.policy == EnrichAbort {
				return nil, err
			}
			p.metrics.RecordsDropped.Inc()
			p.logger.Warn("[pipeline] Dropping %s: %v", rec.Name, err)
			continue
		}
		out = append(out, enriched)
		if (i+1)%25 == 0 {
			p.logger.Info("[pipeline] Enriched %d/%d", i+1, len(clean))
		}
	}

	p.logger.Info("[pipeline] Collected %d complete records (%d dropped)", len(out), len(clean)-len(out))
	return out, nil
}

func (p *Pipeline) enrich(ctx context.Context, rec models.ListingRecord) (models.ListingRecord, error) {
	if p.policy != EnrichRetryOnce {
		return p.enricher.Enrich(ctx, rec)
	}
	var out models.ListingRecord
	err := p.retry.Do(ctx, "enrich "+rec.Name.String(), func() error {
		var err error
		out, err = p.enricher.Enrich(ctx, rec)
		return err
	})
	return out, err
}

// Export writes records to the intermediate file.
func (p *Pipeline) Export(path string, records []models.ListingRecord) error {
	if err := storage.WriteRecords(path, records); err != nil {
		return err
	}
	p.logger.Info("[pipeline] Wrote %d records to %s", len(records), path)
	return nil
}

// Load reads the intermediate file and upserts it as one batch.
func (p *Pipeline) Load(ctx context.Context, path string, w storage.RecordWriter) (models.UpsertReport, error) {
	records, err := storage.ReadRecords(path)
	if err != nil {
		return models.UpsertReport{}, err
	}
	if err := w.InitSchema(ctx); err != nil {
		return models.UpsertReport{}, err
	}
	report, err := w.UpsertBatch(ctx, records)
	if err != nil {
		return report, err
	}
	p.logger.Info("[pipeline] Loaded %s: %d inserted, %d skipped, %d rejected",
		path, report.Inserted, report.Skipped, report.Rejected)
	for _, name := range report.RejectedNames {
		p.logger.Warn("[pipeline] Rejected unenriched record %s", name)
	}
	return report, nil
}
