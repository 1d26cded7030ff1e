// Package metrics exposes Prometheus collectors for document store traffic
// and feed synchronization.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors.
type Metrics struct {
	StoreReads         prometheus.Counter
	StoreWrites        prometheus.Counter
	StoreWriteErrors   prometheus.Counter
	FeedRecordsSynced  prometheus.Counter
	FeedRecordsSkipped prometheus.Counter
	ReadDuration       prometheus.Histogram
	WriteDuration      prometheus.Histogram
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		StoreReads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "listing_store_reads_total",
			Help: "Total collection fetches from the document store",
		}),
		StoreWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "listing_store_writes_total",
			Help: "Total collection write-backs to the document store",
		}),
		StoreWriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "listing_store_write_errors_total",
			Help: "Total failed collection write-backs",
		}),
		FeedRecordsSynced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "listing_feed_records_synced_total",
			Help: "Total external feed records merged successfully",
		}),
		FeedRecordsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "listing_feed_records_skipped_total",
			Help: "Total malformed external feed records skipped",
		}),
		ReadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "listing_store_read_duration_seconds",
			Help:    "Time to fetch the full collection",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		WriteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "listing_store_write_duration_seconds",
			Help:    "Time to write the full collection back",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
	}
}

// Handler returns the Prometheus scrape handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
