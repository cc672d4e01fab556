package graph

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLine(t *testing.T, ids ...string) *Graph {
	t.Helper()
	b := NewBuilder()
	for _, id := range ids {
		b.AddNode(Node{ID: id})
	}
	for i := 0; i+1 < len(ids); i++ {
		b.AddRelationship(Relationship{Source: ids[i], Target: ids[i+1], Type: "link"})
	}
	return b.Build()
}

func TestBuilderClampsRanges(t *testing.T) {
	b := NewBuilder()
	b.AddNode(Node{ID: "A", RiskScore: 140, Centrality: -2, Betweenness: 3, Closeness: 1.5})
	b.AddNode(Node{ID: "B", RiskScore: -5})
	b.AddRelationship(Relationship{ID: "r1", Source: "A", Target: "B", Confidence: 7, RiskWeight: -1})
	g := b.Build()

	a := g.Node("A")
	require.NotNil(t, a)
	assert.Equal(t, 100.0, a.RiskScore)
	assert.Equal(t, 0.0, a.Centrality)
	assert.Equal(t, 1.0, a.Betweenness)
	assert.Equal(t, 1.0, a.Closeness)
	assert.Equal(t, 0.0, g.Node("B").RiskScore)

	e := g.Edge("r1")
	require.NotNil(t, e)
	assert.Equal(t, 1.0, e.Confidence)
	assert.Equal(t, 0.0, e.RiskWeight)
}

func TestBidirectionalMaterialization(t *testing.T) {
	b := NewBuilder()
	b.AddNode(Node{ID: "A"})
	b.AddNode(Node{ID: "B"})
	b.AddRelationship(Relationship{ID: "rel", Source: "A", Target: "B", Type: "suspected_same_entity", Confidence: 0.6, RiskWeight: 0.8, Bidirectional: true})
	g := b.Build()

	require.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, 1, g.RelationshipCount())

	fwd, rev := g.Edge("rel"), g.Edge("rel_reverse")
	require.NotNil(t, fwd)
	require.NotNil(t, rev)

	assert.Equal(t, fwd.Source, rev.Target)
	assert.Equal(t, fwd.Target, rev.Source)
	assert.True(t, rev.Reverse)
	assert.Equal(t, fwd.RelationshipID, rev.RelationshipID)

	// Everything but id, direction and the reverse marker is shared.
	fc, rc := *fwd, *rev
	fc.ID, rc.ID = "", ""
	fc.Index, rc.Index = 0, 0
	fc.Source, fc.Target = rc.Source, rc.Target
	rc.Reverse = false
	assert.Equal(t, fc, rc)

	// A bidirectional pair is still one neighbor.
	assert.Equal(t, 1, g.Degree("A"))
}

func TestReverseIDCollision(t *testing.T) {
	b := NewBuilder()
	for _, id := range []string{"a", "b", "c"} {
		b.AddNode(Node{ID: id})
	}
	b.AddRelationship(Relationship{ID: "r1_reverse", Source: "a", Target: "c"})
	b.AddRelationship(Relationship{ID: "r1", Source: "a", Target: "b", Bidirectional: true})
	b.AddRelationship(Relationship{ID: "r1", Source: "b", Target: "c"})
	g := b.Build()

	require.Equal(t, 4, g.EdgeCount())
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		assert.False(t, seen[e.ID], "duplicate edge id %s", e.ID)
		seen[e.ID] = true
		assert.Same(t, e, g.Edge(e.ID))
	}

	first := g.Edge("r1_reverse")
	require.NotNil(t, first)
	assert.Equal(t, "c", first.Target)
	assert.False(t, first.Reverse)

	fwd := g.Edge("r1-1")
	require.NotNil(t, fwd)
	assert.Equal(t, "b", fwd.Target)
	rev := g.Edge("r1-1_reverse")
	require.NotNil(t, rev)
	assert.True(t, rev.Reverse)
	assert.Equal(t, "r1-1", rev.RelationshipID)

	last := g.Edge("r1")
	require.NotNil(t, last)
	assert.Equal(t, "b", last.Source)
	assert.Equal(t, "c", last.Target)
}

func TestDanglingEdgesDropped(t *testing.T) {
	b := NewBuilder()
	b.AddNode(Node{ID: "A"})
	b.AddNode(Node{ID: "B"})
	b.AddRelationship(Relationship{ID: "ok", Source: "A", Target: "B"})
	b.AddRelationship(Relationship{ID: "bad1", Source: "A", Target: "ghost"})
	b.AddRelationship(Relationship{ID: "bad2", Source: "ghost", Target: "B", Bidirectional: true})
	g := b.Build()

	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 2, g.Diagnostics.DroppedEdges)
	assert.Nil(t, g.Edge("bad1"))
}

func TestCenterAtMostOne(t *testing.T) {
	b := NewBuilder()
	b.AddNode(Node{ID: "A", IsCenter: true})
	b.AddNode(Node{ID: "B", IsCenter: true})
	g := b.Build()

	assert.Equal(t, "A", g.Center)
	assert.True(t, g.Node("A").IsCenter)
	assert.False(t, g.Node("B").IsCenter)

	b = NewBuilder()
	b.AddNode(Node{ID: "A", IsCenter: true})
	b.AddNode(Node{ID: "B"})
	b.SetCenter("B")
	g = b.Build()
	assert.Equal(t, "B", g.Center)
	assert.False(t, g.Node("A").IsCenter)

	b = NewBuilder()
	b.AddNode(Node{ID: "A"})
	b.SetCenter("missing")
	g = b.Build()
	assert.Empty(t, g.Center)
}

func TestDuplicateAndMissingIDs(t *testing.T) {
	b := NewBuilder()
	assert.True(t, b.AddNode(Node{ID: "A", Label: "first"}))
	assert.False(t, b.AddNode(Node{ID: "A", Label: "second"}))
	assert.False(t, b.AddNode(Node{}))
	g := b.Build()

	assert.Equal(t, "first", g.Node("A").Label)
	assert.Equal(t, 1, g.Diagnostics.DuplicateNodes)
	assert.Equal(t, 1, g.Diagnostics.MissingIDs)
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 20, "short"},
		{"Global Trade Holdings Limited", 20, "Global Trade Hold..."},
		{"Ünïcödé Ünïcödé Ünïcödé", 10, "Ünïcödé..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateLabel(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}

	b := NewBuilder()
	b.AddNode(Node{ID: "X", Label: "Global Trade Holdings Limited"})
	n := b.Build().Node("X")
	assert.Equal(t, "Global Trade Holdings Limited", n.Label)
	assert.Equal(t, "Global Trade Hold...", n.DisplayLabel)
}

func TestNeighborhood(t *testing.T) {
	g := buildLine(t, "A", "B", "C", "D", "E")

	assert.Equal(t, []string{"C"}, g.Neighborhood("C", 0))
	assert.Equal(t, []string{"C", "B", "D"}, g.Neighborhood("C", 1))
	assert.Equal(t, []string{"A", "B", "C"}, g.Neighborhood("A", 2))
	assert.Nil(t, g.Neighborhood("missing", 2))
}

func TestShortestPathAndDistances(t *testing.T) {
	g := buildLine(t, "A", "B", "C", "D")

	path := g.ShortestPath(g.IndexOf("A"), g.IndexOf("D"))
	var names []string
	for _, i := range path {
		names = append(names, g.Nodes[i].ID)
	}
	expected := []string{"A", "B", "C", "D"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Expected %v, got %v", expected, names)
	}

	assert.Equal(t, []int{0, 1, 2, 3}, g.Distances(g.IndexOf("A")))

	b := NewBuilder()
	b.AddNode(Node{ID: "X"})
	b.AddNode(Node{ID: "Y"})
	iso := b.Build()
	assert.Nil(t, iso.ShortestPath(0, 1))
	assert.Equal(t, []int{0, -1}, iso.Distances(0))
}

func TestComponentsAndDensity(t *testing.T) {
	b := NewBuilder()
	for _, id := range []string{"A", "B", "C", "D"} {
		b.AddNode(Node{ID: id})
	}
	b.AddRelationship(Relationship{Source: "A", Target: "B"})
	b.AddRelationship(Relationship{Source: "C", Target: "D"})
	g := b.Build()

	assert.Equal(t, 2, g.Components())
	assert.InDelta(t, 2.0/6.0, g.Density(), 1e-9)
	assert.Equal(t, 1.0, g.AverageDegree())

	assert.Equal(t, 0.0, Empty().Density())
	assert.Equal(t, 0, Empty().Components())
}

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)
	uf.Union(0, 1)
	uf.Union(3, 4)
	uf.Union(1, 0)

	assert.True(t, uf.Connected(0, 1))
	assert.False(t, uf.Connected(1, 3))
	assert.Equal(t, 3, uf.Sets())
	assert.Equal(t, -1, uf.Find(9))
	assert.False(t, uf.Connected(9, 9))
}
