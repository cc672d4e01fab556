package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// NodeMetrics are the computed analytics of one node.
type NodeMetrics struct {
	ID            string
	Degree        int
	Centrality    float64
	Betweenness   float64
	Closeness     float64
	ConnectedRisk float64
	Findings      []Finding
}

// Report is the result of one analytics pass. Findings and connected risk
// live here only; the model's risk and tier fields are never touched.
type Report struct {
	Nodes         map[string]*NodeMetrics
	Order         []string
	Findings      []Finding
	AverageDegree float64
	Density       float64
	Duration      time.Duration
}

// Node returns the metrics for id, or nil.
func (r *Report) Node(id string) *NodeMetrics {
	if r == nil {
		return nil
	}
	return r.Nodes[id]
}

// Summary condenses a report for logs and the CLI.
type Summary struct {
	Counts  map[FindingKind]int
	TopRisk []NodeMetrics
}

// Summary counts findings per kind and lists the topN nodes by connected risk.
func (r *Report) Summary(topN int) Summary {
	s := Summary{Counts: make(map[FindingKind]int)}
	if r == nil {
		return s
	}
	for _, f := range r.Findings {
		s.Counts[f.Kind]++
	}

	ranked := make([]NodeMetrics, 0, len(r.Order))
	for _, id := range r.Order {
		ranked = append(ranked, *r.Nodes[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConnectedRisk > ranked[j].ConnectedRisk
	})
	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	s.TopRisk = ranked
	return s
}

// Analyzer computes metrics and runs the detector engine.
type Analyzer struct {
	cfg    config.AnalyticsConfig
	engine *Engine
}

// NewAnalyzer registers the built-in detectors followed by extra.
func NewAnalyzer(cfg config.AnalyticsConfig, extra ...Detector) *Analyzer {
	e := NewEngine()
	e.Register(ClusterDetector{RiskScore: cfg.HighRiskScore, MinNeighbors: cfg.ClusterNeighbors})
	e.Register(CycleDetector{MaxDepth: cfg.CycleDepth})
	e.Register(HubDetector{Multiplier: cfg.HubMultiplier})
	for _, d := range extra {
		e.Register(d)
	}
	return &Analyzer{cfg: cfg, engine: e}
}

// Engine exposes the detector engine for additional registration.
func (a *Analyzer) Engine() *Engine { return a.engine }

// Analyze writes centrality, betweenness and closeness onto the nodes of g
// and returns the report. Detector errors are returned alongside the
// findings that did succeed.
func (a *Analyzer) Analyze(ctx context.Context, g *graph.Graph) (*Report, error) {
	start := time.Now()

	degree := DegreeCentrality(g)
	between := SampledBetweenness(g, a.cfg.BetweennessSample)
	closeness := Closeness(g)
	risk := ConnectedRisk(g, a.cfg.ConnectedRisk)

	r := &Report{
		Nodes:         make(map[string]*NodeMetrics, g.NodeCount()),
		Order:         make([]string, 0, g.NodeCount()),
		AverageDegree: g.AverageDegree(),
		Density:       g.Density(),
	}
	adj := g.Adjacency()
	for i, n := range g.Nodes {
		n.Centrality = degree[i]
		n.Betweenness = between[i]
		n.Closeness = closeness[i]
		r.Nodes[n.ID] = &NodeMetrics{
			ID:            n.ID,
			Degree:        len(adj[i]),
			Centrality:    degree[i],
			Betweenness:   between[i],
			Closeness:     closeness[i],
			ConnectedRisk: risk[i],
		}
		r.Order = append(r.Order, n.ID)
	}

	findings, err := a.engine.Run(ctx, g)
	r.Findings = findings
	for _, f := range findings {
		if m := r.Nodes[f.NodeID]; m != nil {
			m.Findings = append(m.Findings, f)
		}
	}
	r.Duration = time.Since(start)
	return r, err
}

// Analyze runs the built-in detectors with cfg.
func Analyze(g *graph.Graph, cfg config.AnalyticsConfig) *Report {
	r, _ := NewAnalyzer(cfg).Analyze(context.Background(), g)
	return r
}
