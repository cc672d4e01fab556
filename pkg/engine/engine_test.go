package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/amlgraph/pkg/analytics"
	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/graph"
	"github.com/DrSkyle/amlgraph/pkg/layout"
	"github.com/DrSkyle/amlgraph/pkg/metrics"
	"github.com/DrSkyle/amlgraph/pkg/source"
)

const scenario = `{
  "nodes": [
    {"id": "A", "label": "Alpha Holdings", "entity_type": "organization", "risk_score": 95},
    {"id": "B", "label": "Bruno", "risk_score": 50},
    {"id": "C", "label": "Carla", "risk_score": 10}
  ],
  "edges": [
    {"id": "ab", "source": "A", "target": "B", "type": "business_partner", "risk_weight": 0.9},
    {"id": "bc", "source": "B", "target": "C", "type": "family", "risk_weight": 0.2},
    {"id": "cx", "source": "C", "target": "X", "type": "family"}
  ]
}`

func TestPipelineScenario(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	p, err := New(WithMetrics(m))
	require.NoError(t, err)

	res, err := p.BuildBytes(context.Background(), []byte(scenario), graph.FormatJSON, "B")
	require.NoError(t, err)
	require.NoError(t, res.Reason)

	g := res.Graph
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, 1, g.Diagnostics.DroppedEdges)
	assert.Equal(t, "B", g.Center)

	assert.Equal(t, graph.RiskCritical, g.Node("A").Tier.Risk)
	assert.Equal(t, graph.RiskMedium, g.Node("B").Tier.Risk)
	assert.Equal(t, graph.EdgeCritical, g.Edge("ab").Tier.Risk)
	assert.Equal(t, graph.EdgeUntagged, g.Edge("bc").Tier.Risk)

	// B sits between A and C, so the reclassification after analytics tags it.
	assert.Equal(t, 1.0, g.Node("B").Betweenness)
	assert.True(t, g.Node("B").Tier.Bridge)
	assert.True(t, g.Node("B").Tier.HighCentrality)

	assert.Equal(t, layout.ForceDirected, res.Layout.Name)
	assert.Len(t, res.Elements, 5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphsBuilt))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EdgesDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LayoutSelections.WithLabelValues("forceDirected")))
}

func TestPipelineDegradesToEmpty(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name   string
		data   string
		format graph.Format
	}{
		{"malformed json", `{"nodes": [`, graph.FormatJSON},
		{"array root", `[1, 2]`, graph.FormatJSON},
		{"missing edges", `{"nodes": [{"id": "A"}]}`, graph.FormatJSON},
		{"bad yaml", "nodes: [\n", graph.FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.BuildBytes(ctx, []byte(tt.data), tt.format, "")
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.Empty())
			assert.ErrorIs(t, res.Reason, ErrEmptyPayload)
			assert.Equal(t, layout.ForceDirected, res.Layout.Name)
			assert.NotNil(t, res.Report)
		})
	}
}

func TestNonFiniteAmountsStillMarshal(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	tests := []struct {
		name   string
		data   string
		format graph.Format
	}{
		{"yaml", "accounts: [{account_id: A}, {account_id: B}]\ntransactions:\n  - {from_account: A, to_account: B, total_amount: .nan, avg_amount: .inf}\n", graph.FormatYAML},
		{"json", `{"accounts":[{"account_id":"A"},{"account_id":"B"}],"transactions":[{"from_account":"A","to_account":"B","total_amount":"NaN"}]}`, graph.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.BuildBytes(context.Background(), []byte(tt.data), tt.format, "")
			require.NoError(t, err)
			require.Equal(t, 1, res.Graph.EdgeCount())

			e := res.Graph.Edges[0]
			assert.Zero(t, e.Aggregate.TotalAmount)
			assert.False(t, math.IsNaN(e.Style.Width))

			_, err = json.Marshal(res.Elements)
			assert.NoError(t, err)
		})
	}
}

func TestRecoverPanicYieldsEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(WithLogger(NewLogger(&buf, true, slog.LevelInfo)))
	require.NoError(t, err)

	run := func() (res *Result, err error) {
		defer p.recoverPanic(context.Background(), &res, &err)
		panic("layout engine exploded")
	}
	res, err := run()
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Empty())
	assert.ErrorContains(t, res.Reason, "layout engine exploded")
	assert.Contains(t, buf.String(), "Pipeline panic")
}

type brokenDetector struct{}

func (brokenDetector) Name() string { return "Broken" }

func (brokenDetector) Detect(context.Context, *graph.Graph) ([]analytics.Finding, error) {
	return nil, errors.New("backend unavailable")
}

func TestPartialResult(t *testing.T) {
	p, err := New(WithDetectors(brokenDetector{}))
	require.NoError(t, err)

	res, err := p.BuildBytes(context.Background(), []byte(scenario), graph.FormatJSON, "")
	assert.ErrorIs(t, err, ErrPartialResult)
	require.NotNil(t, res)
	assert.Equal(t, 3, res.Graph.NodeCount())
}

func TestAnalystRules(t *testing.T) {
	cfg := config.Default()
	cfg.Rules = []config.RuleConfig{
		{ID: "risky_org", Condition: "entity_type == 'organization' && risk_score > 90.0", Severity: "high"},
	}
	p, err := New(WithConfig(cfg))
	require.NoError(t, err)

	res, err := p.BuildBytes(context.Background(), []byte(scenario), graph.FormatJSON, "")
	require.NoError(t, err)
	findings := res.Report.Node("A").Findings
	require.Len(t, findings, 1)
	assert.Equal(t, "risky_org", findings[0].RuleID)

	cfg.Rules = []config.RuleConfig{{ID: "broken", Condition: "risk_score >"}}
	_, err = New(WithConfig(cfg))
	assert.Error(t, err)
}

func TestLoadFromLocalSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.json")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0600))

	p, err := New()
	require.NoError(t, err)

	res, err := p.Load(context.Background(), path, "", source.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Graph.NodeCount())

	_, err = p.Load(context.Background(), filepath.Join(dir, "nope.json"), "", source.Options{})
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestRedactSensitiveData(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, true, slog.LevelDebug)
	l.Info("fetched", "iban", "DE89370400440532013000", "node_id", "E1")
	assert.Contains(t, buf.String(), `"iban":"[REDACTED]"`)
	assert.Contains(t, buf.String(), `"node_id":"E1"`)
}
