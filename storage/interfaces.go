package storage

import (
	"context"

	"restaurant-catalog/models"
)

// RecordWriter is the write side of the catalog store. Only the pipeline
// holds one.
type RecordWriter interface {
	InitSchema(ctx context.Context) error
	UpsertBatch(ctx context.Context, records []models.ListingRecord) (models.UpsertReport, error)
	Close() error
}

// CatalogReader is the read API handed to the browser. It has no write
// operations.
type CatalogReader interface {
	ListDistinct(ctx context.Context, dim models.Dimension) ([]string, error)
	ListByDimension(ctx context.Context, dim models.Dimension, value string) ([]models.ListingRef, error)
	GetDetail(ctx context.Context, nameOrID string) (models.ListingDetail, bool, error)
	CountByDimension(ctx context.Context, dim models.Dimension) ([]models.DimensionCount, error)
	CountListings(ctx context.Context) (int, error)
}

var (
	_ RecordWriter  = (*Store)(nil)
	_ CatalogReader = (*Store)(nil)
)
