package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes recorded by ObserveRefresh.
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "source_unavailable"
	OutcomeError       = "error"
)

// Metrics provides observability for the country module.
// Tracks refresh outcomes, upstream latency, write volume and render failures.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RefreshTotal        *prometheus.CounterVec
	RefreshDuration     prometheus.Histogram
	SourceFetchDuration *prometheus.HistogramVec
	CountriesUpserted   prometheus.Counter
	RenderFailures      prometheus.Counter
	RenderDuration      prometheus.Histogram
}

// New registers the country metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RefreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "countryapi_refresh_total",
			Help: "Total number of refresh cycles by outcome",
		}, []string{"outcome"}),
		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "countryapi_refresh_duration_seconds",
			Help:    "Duration of a full refresh cycle (fetch, merge, upsert, summary)",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		SourceFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "countryapi_source_fetch_duration_seconds",
			Help:    "Duration of upstream source fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source", "outcome"}),
		CountriesUpserted: factory.NewCounter(prometheus.CounterOpts{
			Name: "countryapi_countries_upserted_total",
			Help: "Total number of country rows inserted or updated",
		}),
		RenderFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "countryapi_summary_render_failures_total",
			Help: "Total number of summary image renders that failed",
		}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "countryapi_summary_render_duration_seconds",
			Help:    "Duration of summary image renders",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveRefresh records a refresh cycle. Call with time.Now() at the start.
func (m *Metrics) ObserveRefresh(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(outcome).Inc()
	m.RefreshDuration.Observe(time.Since(start).Seconds())
}

// ObserveSourceFetch records the latency of one upstream fetch.
func (m *Metrics) ObserveSourceFetch(source string, err error, start time.Time) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.SourceFetchDuration.WithLabelValues(source, outcome).Observe(time.Since(start).Seconds())
}

func (m *Metrics) AddUpserted(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.CountriesUpserted.Add(float64(n))
}

// ObserveRender records a finished render; err marks it as failed.
func (m *Metrics) ObserveRender(err error, start time.Time) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.RenderFailures.Inc()
	}
}
