// Package layout picks a layout strategy from aggregate graph statistics and
// exposes metric-driven parameters for each named layout.
package layout

import (
	"fmt"
	"strings"

	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// Name identifies a layout strategy.
type Name string

const (
	Hierarchical  Name = "hierarchical"
	RiskFocused   Name = "riskFocused"
	Concentric    Name = "concentric"
	Circular      Name = "circular"
	ForceDirected Name = "forceDirected"
)

// Stats are the aggregate characteristics the selector looks at.
type Stats struct {
	Nodes         int
	Edges         int
	Relationships int
	Density       float64
	Components    int
	HasHierarchy  bool
	HighRiskNodes int
}

// Compute collects Stats from g. Relationship types are matched
// case-insensitively against cfg.HierarchyTypes.
func Compute(g *graph.Graph, cfg config.LayoutConfig) Stats {
	s := Stats{
		Nodes:         g.NodeCount(),
		Edges:         g.EdgeCount(),
		Relationships: g.RelationshipCount(),
		Density:       g.Density(),
		Components:    g.Components(),
	}

	hier := make(map[string]bool, len(cfg.HierarchyTypes))
	for _, t := range cfg.HierarchyTypes {
		hier[strings.ToLower(t)] = true
	}
	for _, e := range g.Edges {
		if hier[strings.ToLower(e.Type)] {
			s.HasHierarchy = true
			break
		}
	}
	for _, n := range g.Nodes {
		if n.RiskScore > cfg.HighRiskScore {
			s.HighRiskNodes++
		}
	}
	return s
}

// Decision is the selected layout and the rule that matched.
type Decision struct {
	Name   Name
	Reason string
}

type rule struct {
	name  Name
	match func(Stats, config.LayoutConfig) (bool, string)
}

// rules is evaluated top to bottom; the first match wins.
var rules = []rule{
	{Hierarchical, func(s Stats, c config.LayoutConfig) (bool, string) {
		return s.HasHierarchy && s.Nodes <= c.HierarchicalMaxNodes,
			fmt.Sprintf("hierarchy relationships across %d nodes", s.Nodes)
	}},
	{RiskFocused, func(s Stats, c config.LayoutConfig) (bool, string) {
		return s.Nodes < c.RiskFocusedMaxNodes && s.HighRiskNodes >= c.HighRiskClusterMin,
			fmt.Sprintf("%d high-risk nodes", s.HighRiskNodes)
	}},
	{Concentric, func(s Stats, c config.LayoutConfig) (bool, string) {
		return s.Nodes > c.ConcentricMinNodes,
			fmt.Sprintf("%d nodes", s.Nodes)
	}},
	{Circular, func(s Stats, c config.LayoutConfig) (bool, string) {
		return s.Nodes >= c.CircularMinNodes && s.Nodes <= c.CircularMaxNodes && s.Density > c.CircularMinDensity,
			fmt.Sprintf("density %.2f", s.Density)
	}},
}

// Select runs the decision list. It is deterministic in s and cfg.
func Select(s Stats, cfg config.LayoutConfig) Decision {
	for _, r := range rules {
		if ok, why := r.match(s, cfg); ok {
			return Decision{Name: r.name, Reason: why}
		}
	}
	return Decision{Name: ForceDirected, Reason: "default"}
}

// SelectFor computes stats from g and selects a layout.
func SelectFor(g *graph.Graph, cfg config.LayoutConfig) (Decision, Stats) {
	s := Compute(g, cfg)
	return Select(s, cfg), s
}
