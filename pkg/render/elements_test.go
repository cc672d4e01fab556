package render

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/amlgraph/pkg/classify"
	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

func classified(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	b.AddNode(graph.Node{ID: "A", RiskScore: 95})
	b.AddNode(graph.Node{ID: "B", RiskScore: 50})
	b.AddNode(graph.Node{ID: "C", RiskScore: 10, IsCenter: true})
	b.AddRelationship(graph.Relationship{ID: "ab", Source: "A", Target: "B", Type: "transfer", RiskWeight: 0.9, Confidence: 1})
	b.AddRelationship(graph.Relationship{ID: "bc", Source: "B", Target: "C", Type: "transfer", RiskWeight: 0.2, Confidence: 1})
	b.AddRelationship(graph.Relationship{ID: "ca", Source: "C", Target: "A", Type: "director", RiskWeight: 0.5, Confidence: 0.3, Bidirectional: true})
	g := b.Build()
	classify.Apply(g, config.DefaultClassificationConfig())
	return g
}

func TestElementsListingGolden(t *testing.T) {
	gd := goldie.New(t, goldie.WithFixtureDir("testdata"))
	gd.Assert(t, "scenario_classes", []byte(Listing(Elements(classified(t)))))
}

func TestElementData(t *testing.T) {
	els := Elements(classified(t))
	require.Len(t, els, 7)

	a := els[0]
	assert.Equal(t, GroupNodes, a.Group)
	assert.Equal(t, "A", a.ID())
	assert.Equal(t, "critical", a.Data["riskTier"])
	assert.Equal(t, "ellipse", a.Data["shape"])
	assert.NotContains(t, a.Data, "totalSent")

	rev := els[6]
	assert.Equal(t, "ca_reverse", rev.ID())
	assert.Equal(t, "A", rev.Data["source"])
	assert.Equal(t, "C", rev.Data["target"])
	assert.Equal(t, "ca", rev.Data["relationshipId"])
	assert.Equal(t, "dashed", rev.Data["lineStyle"])
}
