package commands

import (
	"context"
	"fmt"
	"time"

	"restaurant-catalog/fetch"
	"restaurant-catalog/scraper"
	"restaurant-catalog/services"
	"restaurant-catalog/storage"
)

// newFetcher builds the configured fetcher. The returned func releases it.
func newFetcher() (fetch.Fetcher, func(), error) {
	timeout := time.Duration(cfg.RequestTimeoutMs) * time.Millisecond
	switch cfg.Fetcher {
	case "", "http":
		return fetch.NewHTTPFetcher(fetch.HTTPOptions{
			Timeout:     timeout,
			UserAgent:   cfg.UserAgent,
			RateLimitMs: cfg.RateLimitMs,
		}), func() {}, nil
	case "browser":
		b, err := fetch.NewBrowserFetcher(fetch.BrowserOptions{
			ChromeBin:   cfg.ChromeBin,
			UserAgent:   cfg.UserAgent,
			Timeout:     timeout,
			RateLimitMs: cfg.RateLimitMs,
			Settle:      2 * time.Second,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown fetcher %q (want http or browser)", cfg.Fetcher)
}

func newPipeline(f fetch.Fetcher) (*services.Pipeline, error) {
	policy, err := services.ParseEnrichPolicy(cfg.EnrichPolicy)
	if err != nil {
		return nil, err
	}
	return services.NewPipeline(
		scraper.NewCrawler(f, cfg.Selectors, cfg.MaxPages, logger, registry),
		scraper.NewEnricher(f, cfg.Selectors.Address, logger, registry),
		policy,
		time.Duration(cfg.RetryDelayMs)*time.Millisecond,
		logger, registry,
	), nil
}

func openStore(ctx context.Context) (*storage.Store, error) {
	logger.Info("[store] Opening %s store", cfg.DBDriver)
	return storage.Open(ctx, cfg.DBDriver, cfg.DSN(), logger, registry)
}

// scrape runs the collect half of the pipeline and writes the intermediate
// file.
func scrape(ctx context.Context, p *services.Pipeline) error {
	records, err := p.Collect(ctx, cfg.StartURLs)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}
	return p.Export(cfg.OutputPath, records)
}

func load(ctx context.Context, p *services.Pipeline) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := p.Load(ctx, cfg.OutputPath, store); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}
