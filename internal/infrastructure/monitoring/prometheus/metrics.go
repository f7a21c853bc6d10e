package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every instrument the dashboard records.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Dataset layer
	DatasetLoadsTotal   CounterVec
	DatasetLoadDuration HistogramVec
	DatasetRows         GaugeVec
	DatasetLoadedAt     GaugeVec

	// Dashboard layer
	DashboardViewsTotal   CounterVec
	DashboardViewDuration HistogramVec
	FilterFallbacksTotal  CounterVec
	ExportsTotal          CounterVec

	// Cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	ErrorsTotal CounterVec
}

var (
	DefaultHTTPDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultLoadDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.DatasetLoadsTotal = collector.RegisterCounter("dataset_loads_total", "Dataset load attempts", "table", "status")
	m.DatasetLoadDuration = collector.RegisterHistogram("dataset_load_duration_seconds", "Dataset load duration", DefaultLoadDurationBuckets, "table")
	m.DatasetRows = collector.RegisterGauge("dataset_rows", "Rows in the currently loaded table", "table")
	m.DatasetLoadedAt = collector.RegisterGauge("dataset_loaded_timestamp_seconds", "Unix time of the last successful load", "table")

	m.DashboardViewsTotal = collector.RegisterCounter("dashboard_views_total", "Dashboard views built", "result")
	m.DashboardViewDuration = collector.RegisterHistogram("dashboard_view_duration_seconds", "Time to derive one dashboard view", DefaultHTTPDurationBuckets)
	m.FilterFallbacksTotal = collector.RegisterCounter("filter_fallbacks_total", "Filter predicates skipped because they were not engaged or not applicable", "predicate")
	m.ExportsTotal = collector.RegisterCounter("exports_total", "Table exports", "format", "status")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// NewNoopAppMetrics returns AppMetrics whose instruments discard everything.
// Used by the CLI and by tests that do not scrape.
func NewNoopAppMetrics() *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:     noopCounterVec{},
		HTTPRequestDuration:   noopHistogramVec{},
		HTTPActiveRequests:    noopGaugeVec{},
		DatasetLoadsTotal:     noopCounterVec{},
		DatasetLoadDuration:   noopHistogramVec{},
		DatasetRows:           noopGaugeVec{},
		DatasetLoadedAt:       noopGaugeVec{},
		DashboardViewsTotal:   noopCounterVec{},
		DashboardViewDuration: noopHistogramVec{},
		FilterFallbacksTotal:  noopCounterVec{},
		ExportsTotal:          noopCounterVec{},
		CacheHitsTotal:        noopCounterVec{},
		CacheMissesTotal:      noopCounterVec{},
		ErrorsTotal:           noopCounterVec{},
	}
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordDatasetLoad(metrics *AppMetrics, table string, rows int, duration time.Duration, err error) {
	metrics.DatasetLoadDuration.WithLabelValues(table).Observe(duration.Seconds())
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues(table, "failure").Inc()
		return
	}
	metrics.DatasetLoadsTotal.WithLabelValues(table, "success").Inc()
	metrics.DatasetRows.WithLabelValues(table).Set(float64(rows))
	metrics.DatasetLoadedAt.WithLabelValues(table).Set(float64(time.Now().Unix()))
}

func RecordDashboardView(metrics *AppMetrics, empty bool, duration time.Duration) {
	result := "rows"
	if empty {
		result = "empty"
	}
	metrics.DashboardViewsTotal.WithLabelValues(result).Inc()
	metrics.DashboardViewDuration.WithLabelValues().Observe(duration.Seconds())
}

// RecordFilterFallback counts a predicate ("country" or "influence") that
// the filter engine skipped.
func RecordFilterFallback(metrics *AppMetrics, predicate string) {
	metrics.FilterFallbacksTotal.WithLabelValues(predicate).Inc()
}

func RecordExport(metrics *AppMetrics, format string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.ExportsTotal.WithLabelValues(format, status).Inc()
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordError(metrics *AppMetrics, component, code string) {
	metrics.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
