// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scan metrics
	ScansTotal       *prometheus.CounterVec // by category, status
	PagesFetched     prometheus.Counter
	ListingsUpserted prometheus.Counter
	ScanDuration     prometheus.Histogram

	// Reconciliation metrics
	ReconcileRunsTotal *prometheus.CounterVec // by status
	ListingsReconciled prometheus.Counter
	AuctionsClosed     prometheus.Counter
	ReconcileErrors    prometheus.Counter

	// Source client metrics
	FetchLatency *prometheus.HistogramVec // by endpoint

	// Health metrics
	LastSuccessfulScan      prometheus.Gauge
	LastSuccessfulReconcile prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "auction_scanner"
	}

	return &Metrics{
		ScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Total number of category scans by outcome",
		}, []string{"category", "status"}),
		PagesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "pages_fetched_total",
			Help:      "Total number of search result pages fetched",
		}),
		ListingsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "listings_upserted_total",
			Help:      "Total number of listings written by scan batches",
		}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Duration of full scan-all-categories passes",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		ReconcileRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "runs_total",
			Help:      "Total number of reconciliation passes by outcome",
		}, []string{"status"}),
		ListingsReconciled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "listings_total",
			Help:      "Total number of listings checked by reconciliation",
		}),
		AuctionsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "auctions_closed_total",
			Help:      "Total number of listings confirmed closed with a final price",
		}),
		ReconcileErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "errors_total",
			Help:      "Total number of per-listing reconciliation failures",
		}),
		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetch_latency_seconds",
			Help:      "Latency of marketplace fetches by endpoint",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		LastSuccessfulScan: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_scan_timestamp",
			Help:      "Unix timestamp of the last completed scan-all pass",
		}),
		LastSuccessfulReconcile: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_reconcile_timestamp",
			Help:      "Unix timestamp of the last completed reconciliation pass",
		}),
	}
}

// Handler returns the HTTP handler serving the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
