package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds application-wide Prometheus metrics.
type Metrics struct {
	ManagersRegistered prometheus.Counter
	ClientsRegistered  prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all application metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ManagersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "accountdesk_managers_registered_total",
			Help: "Total number of account managers registered",
		}),
		ClientsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "accountdesk_clients_registered_total",
			Help: "Total number of client records inserted",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accountdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// IncrementManagersRegistered increments the managers registered counter by 1.
func (m *Metrics) IncrementManagersRegistered() {
	m.ManagersRegistered.Inc()
}

// IncrementClientsRegistered increments the clients registered counter by 1.
func (m *Metrics) IncrementClientsRegistered() {
	m.ClientsRegistered.Inc()
}

// LatencyMiddleware observes request duration labelled by the matched chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) LatencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
