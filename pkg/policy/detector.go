package policy

import (
	"context"

	"github.com/DrSkyle/amlgraph/pkg/analytics"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// RuleDetector runs compiled CEL rules as an analytics detector.
type RuleDetector struct {
	Engine *CELEngine
}

func (d RuleDetector) Name() string { return "Rules" }

// Detect evaluates every rule against every node. Metrics must already be
// written onto the nodes.
func (d RuleDetector) Detect(ctx context.Context, g *graph.Graph) ([]analytics.Finding, error) {
	if d.Engine == nil || d.Engine.Len() == 0 {
		return nil, nil
	}
	var out []analytics.Finding
	for _, n := range g.Nodes {
		matches, err := d.Engine.Evaluate(ctx, Vars(g, n))
		if err != nil {
			return out, err
		}
		for _, m := range matches {
			severity := m.Severity
			if severity == "" {
				severity = "medium"
			}
			out = append(out, analytics.Finding{
				NodeID:   n.ID,
				Kind:     analytics.KindRule,
				Severity: severity,
				Reason:   m.Description,
				RuleID:   m.ID,
			})
		}
	}
	return out, nil
}

// Vars builds the CEL activation for one node.
func Vars(g *graph.Graph, n *graph.Node) map[string]any {
	attrs := n.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	v := map[string]any{
		"id":             n.ID,
		"entity_type":    string(n.EntityType),
		"risk_score":     n.RiskScore,
		"centrality":     n.Centrality,
		"betweenness":    n.Betweenness,
		"closeness":      n.Closeness,
		"degree":         int64(g.Degree(n.ID)),
		"is_center":      n.IsCenter,
		"total_sent":     0.0,
		"total_received": 0.0,
		"attributes":     attrs,
	}
	if n.Volume != nil {
		v["total_sent"] = n.Volume.TotalSent
		v["total_received"] = n.Volume.TotalReceived
	}
	return v
}
