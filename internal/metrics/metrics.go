// Package metrics exposes prometheus collectors for the grading pipeline.
// All methods are safe on a nil *Metrics so callers never need to guard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	answers    *prometheus.CounterVec
	batches    *prometheus.CounterVec
	scores     prometheus.Histogram
	processing prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_answers_processed_total",
			Help: "Processed candidate answers by reference provenance and status.",
		}, []string{"provenance", "status"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_batches_processed_total",
			Help: "Processed interview batches by top-level status.",
		}, []string{"status"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "interview_grading_score",
			Help:    "Grading score normalized to a 0-1 range.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		processing: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "interview_answer_processing_seconds",
			Help:    "Wall time spent resolving, grading and recording one answer.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
	}
	m.registry.MustRegister(m.answers, m.batches, m.scores, m.processing)
	return m
}

func (m *Metrics) ObserveAnswer(provenance, status string, normalizedScore, seconds float64) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(provenance, status).Inc()
	if status == "success" {
		m.scores.Observe(normalizedScore)
		m.processing.Observe(seconds)
	}
}

func (m *Metrics) ObserveBatch(status string) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
