package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())
	start := time.Now()

	m.ObserveRefresh(OutcomeSuccess, start)
	m.ObserveRefresh(OutcomeUnavailable, start)
	m.ObserveRefresh(OutcomeUnavailable, start)
	m.AddUpserted(250)
	m.AddUpserted(0)
	m.ObserveRender(errors.New("disk full"), start)
	m.ObserveRender(nil, start)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RefreshTotal.WithLabelValues(OutcomeUnavailable)))
	assert.Equal(t, 250.0, testutil.ToFloat64(m.CountriesUpserted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RenderFailures))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRefresh(OutcomeError, time.Now())
		m.ObserveSourceFetch("countries", nil, time.Now())
		m.AddUpserted(3)
		m.ObserveRender(nil, time.Now())
	})
}
