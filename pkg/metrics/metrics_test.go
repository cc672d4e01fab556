package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveGraph(12, 2, 1)
	c.ObserveGraph(3, 1, 0)
	c.ObserveFinding("hub")
	c.ObserveFinding("hub")
	c.ObserveLayout("forceDirected")
	c.LayoutCancelled()
	c.RendererFailed("mount")
	c.ObserveAnalytics(5 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.GraphsBuilt))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Nodes))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.EdgesDropped))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Findings.WithLabelValues("hub")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.LayoutSelections.WithLabelValues("forceDirected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.LayoutsCancelled))
	assert.Equal(t, 1, testutil.CollectAndCount(c.AnalyticsDuration))

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Positive(t, n)
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveGraph(1, 1, 1)
		c.ObserveFinding("x")
		c.ObserveLayout("y")
		c.LayoutCancelled()
		c.RendererFailed("fit")
		c.ObserveAnalytics(time.Second)
	})
}
