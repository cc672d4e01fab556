// Package classify assigns risk, centrality, value and confidence tiers to
// nodes and edges and derives their display attributes.
//
// Every function here is pure: the output depends only on the element's raw
// fields and the thresholds, so re-running Apply after a metric update is
// idempotent.
package classify

import (
	"math"
	"strings"

	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// Shapes by entity type.
const (
	ShapeRound       = "ellipse"
	ShapeRectangular = "round-rectangle"
)

// Line styles.
const (
	LineSolid  = "solid"
	LineDashed = "dashed"
)

var riskColors = map[graph.RiskTier]string{
	graph.RiskCritical: "#DC2626",
	graph.RiskHigh:     "#EA580C",
	graph.RiskMedium:   "#F59E0B",
	graph.RiskLow:      "#10B981",
}

var edgeRiskColors = map[graph.EdgeRiskTier]string{
	graph.EdgeCritical: "#DC2626",
	graph.EdgeHigh:     "#EA580C",
	graph.EdgeMedium:   "#F59E0B",
}

// TypeColors colour low-risk edges by relationship or transaction type.
var TypeColors = map[string]string{
	"wire_transfer":         "#6366F1",
	"ach":                   "#0EA5E9",
	"cash":                  "#84CC16",
	"crypto":                "#A855F7",
	"check":                 "#14B8A6",
	"director":              "#64748B",
	"shareholder":           "#475569",
	"ubo":                   "#334155",
	"parent":                "#334155",
	"family":                "#EC4899",
	"business_partner":      "#8B5CF6",
	"suspected_same_entity": "#F43F5E",
}

// DefaultEdgeColor is used when neither risk nor type picks a colour.
const DefaultEdgeColor = "#94A3B8"

// NodeRiskTier buckets a 0-100 risk score. Bounds are inclusive.
func NodeRiskTier(score float64, t config.RiskThresholds) graph.RiskTier {
	score = graph.Clamp(score, 0, 100)
	switch {
	case score >= t.Critical:
		return graph.RiskCritical
	case score >= t.High:
		return graph.RiskHigh
	case score >= t.Medium:
		return graph.RiskMedium
	default:
		return graph.RiskLow
	}
}

// EdgeRiskTier buckets a 0-100 value (riskWeight*100 or an average risk score).
// The low-medium bound is exclusive so that a weight of exactly 0.2 stays untagged.
func EdgeRiskTier(value float64, t config.EdgeRiskThresholds) graph.EdgeRiskTier {
	switch {
	case value >= t.Critical:
		return graph.EdgeCritical
	case value >= t.High:
		return graph.EdgeHigh
	case value >= t.Medium:
		return graph.EdgeMedium
	case value > t.LowMedium:
		return graph.EdgeLowMedium
	default:
		return graph.EdgeUntagged
	}
}

// NodeTier classifies a node.
func NodeTier(n *graph.Node, cfg config.ClassificationConfig) graph.NodeTier {
	return graph.NodeTier{
		Risk:           NodeRiskTier(n.RiskScore, cfg.NodeRisk),
		HighCentrality: n.Centrality > cfg.HighCentrality,
		Bridge:         n.Betweenness > cfg.Bridge,
	}
}

// NodeStyle derives size, colour, shape and emphasis for a node.
func NodeStyle(n *graph.Node, tier graph.NodeTier, cfg config.ClassificationConfig) graph.NodeStyle {
	return graph.NodeStyle{
		Size:        NodeSize(n.RiskScore, n.Centrality, tier.Risk, cfg.NodeSize),
		Color:       riskColors[tier.Risk],
		Shape:       Shape(n.EntityType),
		BorderWidth: borderWidth(n, tier),
	}
}

// NodeSize grows with log(risk+1) and with centrality, inside the tier's envelope.
func NodeSize(risk, centrality float64, tier graph.RiskTier, env config.SizeEnvelopes) float64 {
	e := envelope(tier, env)
	riskPart := math.Log(graph.Clamp(risk, 0, 100)+1) / math.Log(101)
	f := graph.Clamp(0.5*riskPart+0.5*graph.Clamp(centrality, 0, 1), 0, 1)
	return e.Min + (e.Max-e.Min)*f
}

func envelope(tier graph.RiskTier, env config.SizeEnvelopes) config.SizeEnvelope {
	switch tier {
	case graph.RiskCritical:
		return env.Critical
	case graph.RiskHigh:
		return env.High
	case graph.RiskMedium:
		return env.Medium
	default:
		return env.Low
	}
}

// Shape maps entity types: individuals are round, organizations rectangular.
func Shape(t graph.EntityType) string {
	if t == graph.EntityOrganization {
		return ShapeRectangular
	}
	return ShapeRound
}

func borderWidth(n *graph.Node, tier graph.NodeTier) float64 {
	if n.IsCenter {
		return 4
	}
	w := 1.0
	if tier.HighCentrality {
		w++
	}
	if tier.Bridge {
		w++
	}
	return w
}

// EdgeTier classifies an edge.
func EdgeTier(e *graph.Edge, cfg config.ClassificationConfig) graph.EdgeTier {
	t := graph.EdgeTier{Risk: EdgeRiskTier(e.RiskWeight*100, cfg.EdgeRisk)}

	if e.Aggregate != nil {
		switch {
		case e.Aggregate.TotalAmount >= cfg.HighValue:
			t.Value = "high-value"
		case e.Aggregate.TotalAmount >= cfg.MediumValue:
			t.Value = "medium-value"
		}
	}
	switch {
	case e.Confidence >= cfg.HighConfidence:
		t.Confidence = "high-confidence"
	case e.Confidence < cfg.LowConfidence:
		t.Confidence = "low-confidence"
	}
	return t
}

// EdgeStyle derives width, colour and line style for an edge.
func EdgeStyle(e *graph.Edge, tier graph.EdgeTier, cfg config.ClassificationConfig) graph.EdgeStyle {
	line := LineSolid
	if tier.Confidence == "low-confidence" {
		line = LineDashed
	}
	return graph.EdgeStyle{
		Width:     EdgeWidth(e, cfg.EdgeWidth),
		Color:     EdgeColor(e, cfg.EdgeRisk),
		LineStyle: line,
	}
}

// EdgeWidth keeps a few huge transfers distinct from many small ones
// without unbounded growth. Entity relationships scale with confidence.
func EdgeWidth(e *graph.Edge, w config.EdgeWidthConfig) float64 {
	var raw float64
	if agg := e.Aggregate; agg != nil {
		bonus := math.Min(w.AmountCap, math.Log(agg.TotalAmount+1)/w.AmountDivisor)
		raw = math.Log(float64(agg.TransactionCount)+1)*w.Scale + bonus
	} else {
		raw = w.Min + e.Confidence*2*w.Scale
	}
	return math.Max(w.Min, math.Min(w.Max, raw))
}

// EdgeColor picks the risk colour when riskWeight or the average transaction
// risk reaches the medium edge tier; only lower-risk edges fall back to type.
func EdgeColor(e *graph.Edge, t config.EdgeRiskThresholds) string {
	value := e.RiskWeight * 100
	if e.Aggregate != nil && e.Aggregate.AvgRiskScore > value {
		value = e.Aggregate.AvgRiskScore
	}
	if c, ok := edgeRiskColors[EdgeRiskTier(value, t)]; ok {
		return c
	}
	if c, ok := TypeColors[typeKey(e)]; ok {
		return c
	}
	return DefaultEdgeColor
}

func typeKey(e *graph.Edge) string {
	t := e.Type
	if t == "" && e.Aggregate != nil {
		t = e.Aggregate.PrimaryType
	}
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(t), " ", "_"))
}

// Apply overwrites Tier and Style on every node and edge of g.
func Apply(g *graph.Graph, cfg config.ClassificationConfig) {
	for _, n := range g.Nodes {
		n.Tier = NodeTier(n, cfg)
		n.Style = NodeStyle(n, n.Tier, cfg)
	}
	for _, e := range g.Edges {
		e.Tier = EdgeTier(e, cfg)
		e.Style = EdgeStyle(e, e.Tier, cfg)
	}
}

// NodeClasses lists the tier tags of a classified node.
func NodeClasses(n *graph.Node) []string {
	classes := []string{"risk-" + string(n.Tier.Risk), string(n.EntityType)}
	if n.Tier.HighCentrality {
		classes = append(classes, "high-centrality")
	}
	if n.Tier.Bridge {
		classes = append(classes, "bridge")
	}
	if n.IsCenter {
		classes = append(classes, "center")
	}
	return classes
}

// EdgeClasses lists the tier tags of a classified edge.
func EdgeClasses(e *graph.Edge) []string {
	var classes []string
	if e.Tier.Risk != graph.EdgeUntagged {
		classes = append(classes, "edge-"+string(e.Tier.Risk))
	}
	if e.Tier.Value != "" {
		classes = append(classes, e.Tier.Value)
	}
	if e.Tier.Confidence != "" {
		classes = append(classes, e.Tier.Confidence)
	}
	if k := typeKey(e); k != "" {
		classes = append(classes, "type-"+k)
	}
	if e.Bidirectional {
		classes = append(classes, "bidirectional")
	}
	return classes
}

// NodeClass is the classification result for one node.
type NodeClass struct {
	Tier    graph.NodeTier
	Style   graph.NodeStyle
	Classes []string
}

// EdgeClass is the classification result for one edge.
type EdgeClass struct {
	Tier    graph.EdgeTier
	Style   graph.EdgeStyle
	Classes []string
}

// Node classifies n without mutating it.
func Node(n *graph.Node, cfg config.ClassificationConfig) NodeClass {
	tier := NodeTier(n, cfg)
	c := *n
	c.Tier = tier
	return NodeClass{Tier: tier, Style: NodeStyle(n, tier, cfg), Classes: NodeClasses(&c)}
}

// Edge classifies e without mutating it.
func Edge(e *graph.Edge, cfg config.ClassificationConfig) EdgeClass {
	tier := EdgeTier(e, cfg)
	c := *e
	c.Tier = tier
	return EdgeClass{Tier: tier, Style: EdgeStyle(e, tier, cfg), Classes: EdgeClasses(&c)}
}
