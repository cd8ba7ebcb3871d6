// Package metrics exposes poller measurements to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dm/batchwatch/internal/engine"
	"github.com/dm/batchwatch/internal/model"
)

var connectionStates = []model.ConnectionState{
	model.StateIdle,
	model.StateConnecting,
	model.StateConnected,
	model.StateError,
}

// PrometheusRecorder is a Prometheus implementation of engine.Recorder.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	pollTotal        *prometheus.CounterVec
	pollDuration     prometheus.Histogram
	transitionsTotal *prometheus.CounterVec
	skippedTotal     prometheus.Counter
	connectionState  *prometheus.GaugeVec
}

var _ engine.Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder creates a recorder with its own registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		pollTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batchwatch_polls_total",
			Help: "Total number of batch listing polls by result.",
		}, []string{"result"}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "batchwatch_poll_duration_seconds",
			Help:    "Duration of batch listing fetches.",
			Buckets: prometheus.DefBuckets,
		}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batchwatch_transitions_total",
			Help: "Total number of observed batch status transitions.",
		}, []string{"from", "to"}),
		skippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "batchwatch_skipped_records_total",
			Help: "Total number of malformed batch records dropped from listings.",
		}),
		connectionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "batchwatch_connection_state",
			Help: "Current connection state; 1 for the active state, 0 otherwise.",
		}, []string{"state"}),
	}

	registry.MustRegister(r.pollTotal)
	registry.MustRegister(r.pollDuration)
	registry.MustRegister(r.transitionsTotal)
	registry.MustRegister(r.skippedTotal)
	registry.MustRegister(r.connectionState)

	r.SetConnectionState(model.StateIdle)
	return r
}

// Registry returns the Prometheus registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordPoll counts a poll outcome. Skipped polls never fetched, so their
// duration is not observed.
func (r *PrometheusRecorder) RecordPoll(result string, elapsed time.Duration) {
	r.pollTotal.WithLabelValues(result).Inc()
	if result != engine.PollResultSkipped {
		r.pollDuration.Observe(elapsed.Seconds())
	}
}

func (r *PrometheusRecorder) RecordTransition(from, to model.BatchStatus) {
	r.transitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
}

func (r *PrometheusRecorder) RecordSkippedRecords(n int) {
	if n > 0 {
		r.skippedTotal.Add(float64(n))
	}
}

// SetConnectionState sets the gauge for state to 1 and the others to 0.
func (r *PrometheusRecorder) SetConnectionState(state model.ConnectionState) {
	for _, s := range connectionStates {
		v := 0.0
		if s == state {
			v = 1
		}
		r.connectionState.WithLabelValues(s.String()).Set(v)
	}
}
