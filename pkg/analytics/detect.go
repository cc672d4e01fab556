package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// FindingKind names a suspicious pattern.
type FindingKind string

const (
	KindHighRiskCluster FindingKind = "high-risk-cluster"
	KindCircular        FindingKind = "circular-relationship"
	KindHub             FindingKind = "hub"
	KindRule            FindingKind = "rule"
)

// Finding is one detector hit on one node.
type Finding struct {
	NodeID   string
	Kind     FindingKind
	Severity string
	Reason   string
	// Related holds the risky neighbors or the cycle path, depending on Kind.
	Related []string
	RuleID  string
}

// Detector is an independent, side-effect-free pattern check.
type Detector interface {
	Name() string
	Detect(ctx context.Context, g *graph.Graph) ([]Finding, error)
}

// ClusterDetector flags nodes with more than MinNeighbors neighbors whose
// risk exceeds RiskScore.
type ClusterDetector struct {
	RiskScore    float64
	MinNeighbors int
}

func (d ClusterDetector) Name() string { return "HighRiskCluster" }

func (d ClusterDetector) Detect(ctx context.Context, g *graph.Graph) ([]Finding, error) {
	var out []Finding
	adj := g.Adjacency()
	for i, n := range g.Nodes {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		var risky []string
		for _, nb := range adj[i] {
			if g.Nodes[nb].RiskScore > d.RiskScore {
				risky = append(risky, g.Nodes[nb].ID)
			}
		}
		if len(risky) > d.MinNeighbors {
			out = append(out, Finding{
				NodeID:   n.ID,
				Kind:     KindHighRiskCluster,
				Severity: "high",
				Reason:   fmt.Sprintf("%d neighbors with risk above %.0f", len(risky), d.RiskScore),
				Related:  risky,
			})
		}
	}
	return out, nil
}

// CycleDetector searches outgoing edges up to MaxDepth hops deep for a path
// that returns to its start through at least two other distinct nodes.
// Only the first cycle per node is reported.
type CycleDetector struct {
	MaxDepth int
}

func (d CycleDetector) Name() string { return "CircularRelationship" }

func (d CycleDetector) Detect(ctx context.Context, g *graph.Graph) ([]Finding, error) {
	var out []Finding
	for i, n := range g.Nodes {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		cycle := d.findCycle(g, i)
		if cycle == nil {
			continue
		}
		ids := make([]string, len(cycle))
		for k, idx := range cycle {
			ids[k] = g.Nodes[idx].ID
		}
		out = append(out, Finding{
			NodeID:   n.ID,
			Kind:     KindCircular,
			Severity: "high",
			Reason:   "layering cycle " + strings.Join(ids, " -> "),
			Related:  ids,
		})
	}
	return out, nil
}

func (d CycleDetector) findCycle(g *graph.Graph, start int) []int {
	onPath := map[int]bool{start: true}
	path := []int{start}

	var dfs func(u, depth int) []int
	dfs = func(u, depth int) []int {
		for _, v := range g.SuccessorIndexes(u) {
			if v == start && len(path) >= 3 {
				return append(append([]int(nil), path...), start)
			}
			if onPath[v] || depth >= d.MaxDepth {
				continue
			}
			onPath[v] = true
			path = append(path, v)
			if c := dfs(v, depth+1); c != nil {
				return c
			}
			path = path[:len(path)-1]
			onPath[v] = false
		}
		return nil
	}
	return dfs(start, 0)
}

// HubDetector flags nodes whose degree exceeds Multiplier times the average.
type HubDetector struct {
	Multiplier float64
}

func (d HubDetector) Name() string { return "Hub" }

func (d HubDetector) Detect(ctx context.Context, g *graph.Graph) ([]Finding, error) {
	avg := g.AverageDegree()
	if avg == 0 {
		return nil, nil
	}
	var out []Finding
	for i, nb := range g.Adjacency() {
		if float64(len(nb)) > d.Multiplier*avg {
			out = append(out, Finding{
				NodeID:   g.Nodes[i].ID,
				Kind:     KindHub,
				Severity: "medium",
				Reason:   fmt.Sprintf("degree %d vs network average %.2f", len(nb), avg),
			})
		}
	}
	return out, ctx.Err()
}
