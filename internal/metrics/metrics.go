// Package metrics exposes Prometheus instrumentation for partitioning, layout,
// roster spawning and HTTP admission.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugenenazirov/army-grid/internal/layout"
	"github.com/eugenenazirov/army-grid/internal/partition"
)

const defaultNamespace = "armygrid"

// Collector records domain metrics. A nil *Collector is a no-op.
type Collector struct {
	gatherer prometheus.Gatherer

	partitions     *prometheus.CounterVec
	partitionParts prometheus.Histogram
	layouts        *prometheus.CounterVec
	layoutSlots    prometheus.Histogram
	rosterUnits    prometheus.Histogram
	rateLimited    prometheus.Counter
}

// New registers the collectors on a fresh registry. An empty namespace
// defaults to "armygrid".
func New(namespace string) *Collector {
	return NewWithRegistry(prometheus.NewRegistry(), namespace)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry, namespace string) *Collector {
	if namespace == "" {
		namespace = defaultNamespace
	}
	factory := promauto.With(reg)

	return &Collector{
		gatherer: reg,
		partitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "partition",
			Name:      "requests_total",
			Help:      "Partition requests by outcome (ok, invalid_argument, infeasible, error).",
		}, []string{"outcome"}),
		partitionParts: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "partition",
			Name:      "parts",
			Help:      "Number of parts per successful partition.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		layouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "solves_total",
			Help:      "Layout requests by whether the grid was recomputed.",
		}, []string{"recomputed"}),
		layoutSlots: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "slots",
			Help:      "Slots per solved grid, empty ones included.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		rosterUnits: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "units",
			Help:      "Units per spawned roster.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
}

// ObservePartition records the outcome of a partition request.
func (c *Collector) ObservePartition(parts int, err error) {
	if c == nil {
		return
	}
	c.partitions.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		c.partitionParts.Observe(float64(parts))
	}
}

// ObserveLayout records a solved grid.
func (c *Collector) ObserveLayout(result layout.Result, recomputed bool) {
	if c == nil {
		return
	}
	label := "false"
	if recomputed {
		label = "true"
	}
	c.layouts.WithLabelValues(label).Inc()
	c.layoutSlots.Observe(float64(result.Capacity()))
}

// ObserveRoster records the size of a spawned roster.
func (c *Collector) ObserveRoster(units int) {
	if c == nil {
		return
	}
	c.rosterUnits.Observe(float64(units))
}

// ObserveRateLimited counts a request rejected by the rate limiter.
func (c *Collector) ObserveRateLimited() {
	if c == nil {
		return
	}
	c.rateLimited.Inc()
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, partition.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, partition.ErrInfeasible):
		return "infeasible"
	default:
		return "error"
	}
}
