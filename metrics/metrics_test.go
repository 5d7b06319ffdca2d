package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_SessionLifecycle_UpdatesGaugeAndCounters(t *testing.T) {
	m := New()

	m.SessionCreated()
	m.SessionCreated()
	m.SessionClosed()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.sessionsActive))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.sessionsCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sessionsClosed))
}

func TestMetrics_SessionReaped_DecrementsActiveAndIncrementsReaped(t *testing.T) {
	m := New()
	m.SessionCreated()

	m.SessionReaped()

	assert.Equal(t, float64(0), testutil.ToFloat64(m.sessionsActive))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sessionsReaped))
}

func TestMetrics_RouterFallback_LabelsByReason(t *testing.T) {
	m := New()
	m.RouterFallback("keyword")
	m.RouterFallback("keyword")
	m.RouterFallback("casual")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.routerFallbacks.WithLabelValues("keyword")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.routerFallbacks.WithLabelValues("casual")))
}

func TestMetrics_ProviderError_LabelsByKind(t *testing.T) {
	m := New()
	m.ProviderError("timeout")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.providerErrors.WithLabelValues("timeout")))
}

func TestMetrics_TwoInstancesDoNotCollide(t *testing.T) {
	a := New()
	b := New()
	a.SessionCreated()
	assert.Equal(t, float64(1), testutil.ToFloat64(a.sessionsActive))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.sessionsActive))
}
