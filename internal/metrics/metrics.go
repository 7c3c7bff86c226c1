package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_api_http_requests_total",
			Help: "Total number of HTTP requests by method, route, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_api_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_api_http_requests_in_flight",
		Help: "Current number of HTTP requests being processed.",
	})
)

// RecordCounter is the subset of the store needed to collect record metrics.
type RecordCounter interface {
	CountByEnvironment(ctx context.Context) (map[string]int64, error)
}

// recordCollector is a custom Prometheus collector that queries the store
// on each scrape to report inventory record counts by environment.
type recordCollector struct {
	store       RecordCounter
	recordsDesc *prometheus.Desc
}

func (c *recordCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.recordsDesc
}

func (c *recordCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := c.store.CountByEnvironment(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.recordsDesc, err)
		return
	}
	for env, n := range counts {
		ch <- prometheus.MustNewConstMetric(
			c.recordsDesc,
			prometheus.GaugeValue,
			float64(n),
			env,
		)
	}
}

// registry is the dedicated registry backing /metrics. The default
// registry pre-registers the Go and process collectors in its init, so
// registering them there again panics; a fresh registry avoids that and
// lets Register be called more than once in tests.
var registry *prometheus.Registry

// Register builds the metrics registry. Call once at startup after the
// store is initialised.
func Register(store RecordCounter) {
	registry = prometheus.NewRegistry()
	registry.MustRegister(
		// Standard Go runtime and process metrics
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),

		// HTTP service metrics
		httpRequestsTotal,
		httpRequestDuration,
		httpRequestsInFlight,

		// Application metrics
		&recordCollector{
			store: store,
			recordsDesc: prometheus.NewDesc(
				"inventory_api_records_total",
				"Number of inventory records, partitioned by environment.",
				[]string{"environment"},
				nil,
			),
		},
	)
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// responseWriter wraps http.ResponseWriter to capture the response status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware wraps an http.Handler to record HTTP metrics.
// pattern should be the route pattern string (e.g. "/inventory/{id}")
// so the path label has bounded cardinality.
func Middleware(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			httpRequestsInFlight.Dec()
			status := strconv.Itoa(rw.status)
			httpRequestsTotal.WithLabelValues(r.Method, pattern, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(rw, r)
	})
}
