// Package metrics exposes Prometheus counters for interactions, store calls
// and RPCs on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "todo"

// Metrics holds the application's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	interactions *prometheus.CounterVec
	storeOps     *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
	rpcs         *prometheus.CounterVec
}

// New creates and registers all collectors, plus the Go and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_total",
			Help:      "UI events dispatched, by event kind and outcome.",
		}, []string{"event", "outcome"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Task store calls, by operation and result.",
		}, []string{"op", "result"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Task store call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		rpcs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Connect RPCs handled, by procedure and code.",
		}, []string{"procedure", "code"}),
	}

	m.registry.MustRegister(
		m.interactions,
		m.storeOps,
		m.storeLatency,
		m.rpcs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveInteraction counts one dispatched UI event.
func (m *Metrics) ObserveInteraction(event, outcome string) {
	if m == nil {
		return
	}
	m.interactions.WithLabelValues(event, outcome).Inc()
}

// ObserveRPC counts one handled RPC. code is "ok" or a Connect code name.
func (m *Metrics) ObserveRPC(procedure, code string) {
	if m == nil {
		return
	}
	m.rpcs.WithLabelValues(procedure, code).Inc()
}

func (m *Metrics) observeStore(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOps.WithLabelValues(op, result).Inc()
	m.storeLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
