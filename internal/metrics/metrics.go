package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects back office metrics on its own registry.
type Recorder struct {
	registry      *prometheus.Registry
	catalogCalls  *prometheus.HistogramVec
	submissions   *prometheus.CounterVec
	stockItems    *prometheus.CounterVec
	unitMutations *prometheus.CounterVec
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		catalogCalls: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockdesk_catalog_request_duration_seconds",
				Help:    "Duration of calls to the catalog API",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "outcome"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockdesk_stock_submissions_total",
				Help: "Stock update submissions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		stockItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockdesk_stock_items_submitted_total",
				Help: "Inventory records included in successful stock submissions",
			},
			[]string{"kind"},
		),
		unitMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockdesk_unit_mutations_total",
				Help: "Effective changes to the unit set",
			},
			[]string{"action"},
		),
	}

	r.registry.MustRegister(r.catalogCalls, r.submissions, r.stockItems, r.unitMutations)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveCatalogCall records the duration of one catalog API call.
func (r *Recorder) ObserveCatalogCall(operation string, started time.Time, err error) {
	if r == nil {
		return
	}
	r.catalogCalls.WithLabelValues(operation, outcome(err)).Observe(time.Since(started).Seconds())
}

// Submission records one stock submission of the given kind.
func (r *Recorder) Submission(kind string, items int, err error) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(kind, outcome(err)).Inc()
	if err == nil {
		r.stockItems.WithLabelValues(kind).Add(float64(items))
	}
}

// UnitMutation records an effective add or remove on the unit set.
func (r *Recorder) UnitMutation(action string) {
	if r == nil {
		return
	}
	r.unitMutations.WithLabelValues(action).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
