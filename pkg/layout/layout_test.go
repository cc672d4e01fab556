package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

func TestSelectDecisionOrder(t *testing.T) {
	cfg := config.DefaultLayoutConfig()
	tests := []struct {
		name  string
		stats Stats
		want  Name
	}{
		{"hierarchy beats risk", Stats{Nodes: 20, HasHierarchy: true, HighRiskNodes: 10}, Hierarchical},
		{"large hierarchy falls through", Stats{Nodes: 51, HasHierarchy: true, Density: 0.5}, Circular},
		{"risk cluster", Stats{Nodes: 49, HighRiskNodes: 3}, RiskFocused},
		{"risk cluster needs fewer than 50", Stats{Nodes: 50, HighRiskNodes: 3}, ForceDirected},
		{"two risky nodes are not a cluster", Stats{Nodes: 10, HighRiskNodes: 2}, ForceDirected},
		{"large graph", Stats{Nodes: 101, Density: 0.9}, Concentric},
		{"exactly 100 nodes is not concentric", Stats{Nodes: 100, Density: 0.31}, Circular},
		{"dense moderate", Stats{Nodes: 10, Density: 0.31}, Circular},
		{"sparse moderate", Stats{Nodes: 30, Density: 0.3}, ForceDirected},
		{"tiny dense", Stats{Nodes: 3, Density: 1}, ForceDirected},
		{"empty", Stats{}, ForceDirected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.stats, cfg).Name)
		})
	}
}

func TestSelectDeterministic(t *testing.T) {
	cfg := config.DefaultLayoutConfig()
	s := Stats{Nodes: 40, Density: 0.4, HighRiskNodes: 3, HasHierarchy: false}
	first := Select(s, cfg)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Select(s, cfg))
	}
}

func scenario() *graph.Graph {
	b := graph.NewBuilder()
	b.AddNode(graph.Node{ID: "A", RiskScore: 95})
	b.AddNode(graph.Node{ID: "B", RiskScore: 50})
	b.AddNode(graph.Node{ID: "C", RiskScore: 10, IsCenter: true})
	b.AddRelationship(graph.Relationship{ID: "ab", Source: "A", Target: "B", Type: "transfer", RiskWeight: 0.9, Confidence: 1})
	b.AddRelationship(graph.Relationship{ID: "bc", Source: "B", Target: "C", Type: "transfer", RiskWeight: 0.2, Confidence: 1})
	return b.Build()
}

func TestScenarioSelectsForceDirected(t *testing.T) {
	d, s := SelectFor(scenario(), config.DefaultLayoutConfig())
	assert.Equal(t, ForceDirected, d.Name)
	assert.Equal(t, 3, s.Nodes)
	assert.Equal(t, 1, s.HighRiskNodes)
	assert.Equal(t, 1, s.Components)
	assert.False(t, s.HasHierarchy)
}

func TestComputeHierarchySignal(t *testing.T) {
	b := graph.NewBuilder()
	b.AddNode(graph.Node{ID: "co"})
	b.AddNode(graph.Node{ID: "p"})
	b.AddRelationship(graph.Relationship{Source: "p", Target: "co", Type: "Director"})
	d, s := SelectFor(b.Build(), config.DefaultLayoutConfig())
	assert.True(t, s.HasHierarchy)
	assert.Equal(t, Hierarchical, d.Name)
}

func TestRiskShortensEdges(t *testing.T) {
	for _, name := range Names() {
		spec, err := Lookup(name)
		require.NoError(t, err)
		calm := spec.EdgeLength(&graph.Edge{RiskWeight: 0.1, Confidence: 1})
		risky := spec.EdgeLength(&graph.Edge{RiskWeight: 0.9, Confidence: 1})
		assert.LessOrEqual(t, risky, calm, fmt.Sprintf("layout %s", name))
	}
}

func TestResolve(t *testing.T) {
	g := scenario()
	spec, err := Lookup(RiskFocused)
	require.NoError(t, err)

	r := spec.Resolve(g)
	assert.Equal(t, RiskFocused, r.Name)
	assert.Len(t, r.EdgeLength, 2)
	assert.Less(t, r.EdgeLength["ab"], r.EdgeLength["bc"])
	assert.Equal(t, 11.0, r.Levels["C"])
	assert.Equal(t, 9.5, r.Levels["A"])

	spec, _ = Lookup(ForceDirected)
	r = spec.Resolve(g)
	assert.Nil(t, r.Levels)
	assert.True(t, r.Randomize)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("spiral")
	assert.True(t, errors.Is(err, ErrUnknownLayout))
}
