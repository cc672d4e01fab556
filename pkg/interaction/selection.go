package interaction

import (
	"github.com/DrSkyle/amlgraph/pkg/analytics"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// Selection kinds.
const (
	KindNode = "node"
	KindEdge = "edge"
)

// Selection is the payload handed to the host UI on click and focus. It is
// assembled when the event fires and never stored on the model.
type Selection struct {
	Instance string
	Kind     string
	ID       string
	Label    string
	// Focus is set for double-click focus transitions.
	Focus bool

	RiskScore     float64
	RiskTier      graph.RiskTier
	Centrality    float64
	Betweenness   float64
	Closeness     float64
	ConnectedRisk float64
	Neighborhood  []string
	Findings      []analytics.Finding
	Flags         []analytics.FindingKind

	Source     string
	Target     string
	Type       string
	Confidence float64
	RiskWeight float64
	EdgeTier   graph.EdgeRiskTier
}

func nodeSelection(g *graph.Graph, r *analytics.Report, id string, depth int) Selection {
	n := g.Node(id)
	sel := Selection{
		Kind:         KindNode,
		ID:           id,
		Label:        n.Label,
		RiskScore:    n.RiskScore,
		RiskTier:     n.Tier.Risk,
		Centrality:   n.Centrality,
		Betweenness:  n.Betweenness,
		Closeness:    n.Closeness,
		Neighborhood: g.Neighborhood(id, depth),
	}
	if m := r.Node(id); m != nil {
		sel.ConnectedRisk = m.ConnectedRisk
		sel.Findings = m.Findings
		seen := make(map[analytics.FindingKind]bool)
		for _, f := range m.Findings {
			if !seen[f.Kind] {
				seen[f.Kind] = true
				sel.Flags = append(sel.Flags, f.Kind)
			}
		}
	}
	return sel
}

func edgeSelection(e *graph.Edge) Selection {
	return Selection{
		Kind:         KindEdge,
		ID:           e.ID,
		Label:        e.Type,
		Source:       e.Source,
		Target:       e.Target,
		Type:         e.Type,
		Confidence:   e.Confidence,
		RiskWeight:   e.RiskWeight,
		EdgeTier:     e.Tier.Risk,
		Neighborhood: []string{e.Source, e.Target},
	}
}
