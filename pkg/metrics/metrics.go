// Package metrics exposes pipeline and controller diagnostics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "amlgraph"

// Collector groups the engine's Prometheus instruments. A nil *Collector is
// valid and records nothing.
type Collector struct {
	GraphsBuilt       prometheus.Counter
	Nodes             prometheus.Gauge
	EdgesDropped      prometheus.Counter
	DuplicateNodes    prometheus.Counter
	Findings          *prometheus.CounterVec
	LayoutSelections  *prometheus.CounterVec
	LayoutsCancelled  prometheus.Counter
	RendererFailures  *prometheus.CounterVec
	AnalyticsDuration prometheus.Histogram
}

// New creates the collectors and registers them on reg when it is non-nil.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		GraphsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_built_total",
			Help:      "Number of graph models rebuilt from a payload.",
		}),
		Nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Node count of the most recently built graph.",
		}),
		EdgesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_dropped_total",
			Help:      "Relationships dropped for referencing unknown nodes.",
		}),
		DuplicateNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_nodes_total",
			Help:      "Nodes ignored because their id was already present.",
		}),
		Findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Suspicious-pattern findings by kind.",
		}, []string{"kind"}),
		LayoutSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_selections_total",
			Help:      "Layouts chosen by the selector.",
		}, []string{"layout"}),
		LayoutsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_cancelled_total",
			Help:      "In-flight layout runs replaced or stopped before completion.",
		}),
		RendererFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renderer_failures_total",
			Help:      "Rendering-engine calls that failed, by operation.",
		}, []string{"op"}),
		AnalyticsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analytics_duration_seconds",
			Help:      "Wall time of one analytics pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
	if reg != nil {
		reg.MustRegister(
			c.GraphsBuilt, c.Nodes, c.EdgesDropped, c.DuplicateNodes,
			c.Findings, c.LayoutSelections, c.LayoutsCancelled,
			c.RendererFailures, c.AnalyticsDuration,
		)
	}
	return c
}

// ObserveGraph records one rebuilt graph.
func (c *Collector) ObserveGraph(nodes, dropped, duplicates int) {
	if c == nil {
		return
	}
	c.GraphsBuilt.Inc()
	c.Nodes.Set(float64(nodes))
	c.EdgesDropped.Add(float64(dropped))
	c.DuplicateNodes.Add(float64(duplicates))
}

// ObserveFinding counts one finding of kind.
func (c *Collector) ObserveFinding(kind string) {
	if c == nil {
		return
	}
	c.Findings.WithLabelValues(kind).Inc()
}

// ObserveLayout counts a layout selection.
func (c *Collector) ObserveLayout(name string) {
	if c == nil {
		return
	}
	c.LayoutSelections.WithLabelValues(name).Inc()
}

// LayoutCancelled counts a cancelled layout run.
func (c *Collector) LayoutCancelled() {
	if c == nil {
		return
	}
	c.LayoutsCancelled.Inc()
}

// RendererFailed counts a failed rendering-engine call.
func (c *Collector) RendererFailed(op string) {
	if c == nil {
		return
	}
	c.RendererFailures.WithLabelValues(op).Inc()
}

// ObserveAnalytics records the duration of an analytics pass.
func (c *Collector) ObserveAnalytics(d time.Duration) {
	if c == nil {
		return
	}
	c.AnalyticsDuration.Observe(d.Seconds())
}
