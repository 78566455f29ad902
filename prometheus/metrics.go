// Package prometheus provides Prometheus instrumentation for metascan services.
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/metascan"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "metascan"

// Metrics holds the collectors for one registry.
type Metrics struct {
	registry *prometheus.Registry

	FetchesTotal     *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	BatchesTotal     *prometheus.CounterVec
	PagesTotal       *prometheus.CounterVec
	BatchDuration    prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
	HTTPRequestTimes *prometheus.HistogramVec
}

// NewMetrics registers metascan collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Total number of page fetches by outcome code.",
		}, []string{"code"}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of page fetches.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total number of batches by outcome code.",
		}, []string{"code"}),
		PagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Total number of processed URLs by outcome.",
		}, []string{"outcome"}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of batches.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of API requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestTimes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one API request.
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestTimes.WithLabelValues(method, path).Observe(d.Seconds())
}

// outcomeCode labels a result by its error code, "ok" on success.
func outcomeCode(err error) string {
	if err == nil {
		return "ok"
	}
	return metascan.ErrorCode(err)
}

// Ensure Fetcher implements metascan.Fetcher.
var _ metascan.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a Fetcher with fetch counters and latency.
type Fetcher struct {
	next    metascan.Fetcher
	metrics *Metrics
}

// NewFetcher creates a new instrumented Fetcher.
func NewFetcher(next metascan.Fetcher, m *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: m}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.metrics.FetchesTotal.WithLabelValues(outcomeCode(err)).Inc()
		f.metrics.FetchDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.next.Close()
}

// Ensure Runner implements metascan.BatchRunner.
var _ metascan.BatchRunner = (*Runner)(nil)

// Runner wraps a BatchRunner with batch and per-page counters.
type Runner struct {
	next    metascan.BatchRunner
	metrics *Metrics
}

// NewRunner creates a new instrumented Runner.
func NewRunner(next metascan.BatchRunner, m *Metrics) *Runner {
	return &Runner{next: next, metrics: m}
}

func (r *Runner) RunBatch(ctx context.Context, input string) (result *metascan.BatchResult, err error) {
	defer func(begin time.Time) {
		r.metrics.BatchesTotal.WithLabelValues(outcomeCode(err)).Inc()
		r.metrics.BatchDuration.Observe(time.Since(begin).Seconds())
		if result != nil {
			r.metrics.PagesTotal.WithLabelValues("record").Add(float64(len(result.Records)))
			r.metrics.PagesTotal.WithLabelValues("error").Add(float64(len(result.Errors)))
		}
	}(time.Now())
	return r.next.RunBatch(ctx, input)
}
