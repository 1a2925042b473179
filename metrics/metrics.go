package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the pipeline counters on a private prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	PagesFetched    *prometheus.CounterVec
	FetchFailures   *prometheus.CounterVec
	RecordsCrawled  prometheus.Counter
	MalformedFields *prometheus.CounterVec
	RecordsEnriched prometheus.Counter
	RecordsDropped  prometheus.Counter

	RowsInserted  prometheus.Counter
	RowsSkipped   prometheus.Counter
	RowsRejected  prometheus.Counter
	BatchDuration prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_pages_fetched_total",
		Help: "Pages fetched successfully, by stage.",
	}, []string{"stage"})
	fetchFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_failures_total",
		Help: "Failed page fetches, by stage.",
	}, []string{"stage"})
	crawled := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_records_crawled_total"})
	malformed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_malformed_fields_total",
		Help: "Fields that fell back to a default value, by field.",
	}, []string{"field"})
	enriched := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_records_enriched_total"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_records_dropped_total"})

	inserted := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_rows_inserted_total"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_rows_skipped_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_rows_rejected_total"})
	batch := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_upsert_batch_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(pages, fetchFailures, crawled, malformed, enriched, dropped,
		inserted, skipped, rejected, batch)
	return &Registry{
		reg:             r,
		PagesFetched:    pages,
		FetchFailures:   fetchFailures,
		RecordsCrawled:  crawled,
		MalformedFields: malformed,
		RecordsEnriched: enriched,
		RecordsDropped:  dropped,
		RowsInserted:    inserted,
		RowsSkipped:     skipped,
		RowsRejected:    rejected,
		BatchDuration:   batch,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
