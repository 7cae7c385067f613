package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAnswer(t *testing.T) {
	m := New()
	m.ObserveAnswer("stored", "success", 0.8, 1.2)
	m.ObserveAnswer("stored", "success", 0.4, 0.9)
	m.ObserveAnswer("generated_new", "error", 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.answers.WithLabelValues("stored", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("generated_new", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.scores))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAnswer("stored", "success", 1, 1)
		m.ObserveBatch("success")
	})
	assert.NotNil(t, m.Handler())
}
