package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kubeshield_audit_events_stored_total",
		Help: "Total number of security events accepted, labelled by source.",
	}, []string{"source"})

	EventsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kubeshield_audit_events_evicted_total",
		Help: "Total number of events dropped from the window by FIFO eviction.",
	})

	RetainedEvents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kubeshield_audit_retained_events",
		Help: "Number of events currently held in the in-memory window.",
	})

	SimulationTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kubeshield_audit_simulation_ticks_total",
		Help: "Total number of simulation ticks that produced an event.",
	})

	SimulationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kubeshield_audit_simulation_errors_total",
		Help: "Total number of simulation ticks that failed and were skipped.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kubeshield_audit_request_duration_ms",
		Help:    "HTTP request latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"method", "path"})
)
