// Package graph holds the canonical entity/relationship model shared by
// classification, analytics, layout selection and the interaction layer.
//
// A Graph is rebuilt from scratch for every payload and is read-only once
// Build returns; the analytics pass is the only writer of the metric fields.
package graph

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// EntityType distinguishes natural persons from legal entities.
type EntityType string

const (
	EntityIndividual   EntityType = "individual"
	EntityOrganization EntityType = "organization"
)

// DisplayLabelMax is the rune budget of a rendered label.
const DisplayLabelMax = 20

// ReverseSuffix is appended to the id of the materialized reverse edge.
const ReverseSuffix = "_reverse"

// VolumeMetrics summarise an account's flows (transaction network only).
type VolumeMetrics struct {
	TotalSent        float64
	TotalReceived    float64
	TransactionCount int
}

// TransactionAggregate summarises the transfers behind one relationship.
type TransactionAggregate struct {
	TotalAmount      float64
	AvgAmount        float64
	TransactionCount int
	PrimaryType      string
	LatestTimestamp  time.Time
	// AvgRiskScore is on the 0-100 scale and only influences colouring.
	AvgRiskScore float64
}

// Node is an entity (individual or organization) or an account.
type Node struct {
	Index           int
	ID              string
	Label           string
	DisplayLabel    string
	EntityType      EntityType
	RiskScore       float64
	Centrality      float64
	Betweenness     float64
	Closeness       float64
	ConnectionCount int
	Volume          *VolumeMetrics
	IsCenter        bool
	Attributes      map[string]any

	Tier  NodeTier
	Style NodeStyle
}

// Edge is a single directed relationship. Bidirectional relationships are
// stored as a forward and a Reverse edge sharing RelationshipID.
type Edge struct {
	Index          int
	ID             string
	RelationshipID string
	Source         string
	Target         string
	Type           string
	Confidence     float64
	RiskWeight     float64
	Bidirectional  bool
	Reverse        bool
	Aggregate      *TransactionAggregate

	Tier  EdgeTier
	Style EdgeStyle
}

// Relationship is the builder input for one (possibly bidirectional) edge.
type Relationship struct {
	ID            string
	Source        string
	Target        string
	Type          string
	Confidence    float64
	RiskWeight    float64
	Bidirectional bool
	Aggregate     *TransactionAggregate
}

// Diagnostics counts what normalization discarded.
type Diagnostics struct {
	// NoData is set when the payload lacked a node or edge collection.
	NoData         bool
	DroppedEdges   int
	DuplicateNodes int
	MissingIDs     int
	Adapter        string
}

// Graph is the canonical model.
type Graph struct {
	Nodes       []*Node
	Edges       []*Edge
	Center      string
	Diagnostics Diagnostics

	idMap         map[string]int
	edgeMap       map[string]int
	out           [][]int // edge indexes by source node
	in            [][]int // edge indexes by target node
	neighbors     [][]int // distinct undirected neighbor node indexes
	relationships int
}

// Empty returns a graph with no nodes, the "no data" rendering state.
func Empty() *Graph {
	return NewBuilder().Build()
}

// Node returns the node for id or nil.
func (g *Graph) Node(id string) *Node {
	idx, ok := g.idMap[id]
	if !ok {
		return nil
	}
	return g.Nodes[idx]
}

// Edge returns the directed edge for id or nil.
func (g *Graph) Edge(id string) *Edge {
	idx, ok := g.edgeMap[id]
	if !ok {
		return nil
	}
	return g.Edges[idx]
}

// HasNode reports whether id is part of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.idMap[id]
	return ok
}

func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount counts directed edges, including materialized reverses.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// RelationshipCount counts relationships as they arrived, before materialization.
func (g *Graph) RelationshipCount() int { return g.relationships }

// IsEmpty reports whether there is nothing to render.
func (g *Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// Neighbors returns the distinct nodes adjacent to id in either direction.
func (g *Graph) Neighbors(id string) []*Node {
	idx, ok := g.idMap[id]
	if !ok {
		return nil
	}
	res := make([]*Node, 0, len(g.neighbors[idx]))
	for _, n := range g.neighbors[idx] {
		res = append(res, g.Nodes[n])
	}
	return res
}

// Successors returns the distinct targets of id's outgoing edges.
func (g *Graph) Successors(id string) []*Node {
	idx, ok := g.idMap[id]
	if !ok {
		return nil
	}
	seen := make(map[int]bool, len(g.out[idx]))
	var res []*Node
	for _, e := range g.out[idx] {
		t := g.idMap[g.Edges[e].Target]
		if !seen[t] {
			seen[t] = true
			res = append(res, g.Nodes[t])
		}
	}
	return res
}

// IncidentEdges returns all directed edges touching id.
func (g *Graph) IncidentEdges(id string) []*Edge {
	idx, ok := g.idMap[id]
	if !ok {
		return nil
	}
	res := make([]*Edge, 0, len(g.out[idx])+len(g.in[idx]))
	for _, e := range g.out[idx] {
		res = append(res, g.Edges[e])
	}
	for _, e := range g.in[idx] {
		res = append(res, g.Edges[e])
	}
	return res
}

// Degree is the number of distinct neighbors.
func (g *Graph) Degree(id string) int {
	idx, ok := g.idMap[id]
	if !ok {
		return 0
	}
	return len(g.neighbors[idx])
}

// AverageDegree is the mean distinct-neighbor degree, 0 for an empty graph.
func (g *Graph) AverageDegree() float64 {
	if len(g.Nodes) == 0 {
		return 0
	}
	total := 0
	for _, nb := range g.neighbors {
		total += len(nb)
	}
	return float64(total) / float64(len(g.Nodes))
}

// Density is relationships / (n*(n-1)/2), 0 below two nodes.
func (g *Graph) Density() float64 {
	n := len(g.Nodes)
	if n < 2 {
		return 0
	}
	return float64(g.relationships) / (float64(n) * float64(n-1) / 2)
}

// Stats is a one-line summary used in logs.
func (g *Graph) Stats() string {
	return fmt.Sprintf("Nodes: %d | Edges: %d | Dropped: %d", len(g.Nodes), len(g.Edges), g.Diagnostics.DroppedEdges)
}

// Clamp bounds v to [lo, hi]; NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NonNegative maps negative and non-finite values to 0.
func NonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// TruncateLabel shortens s to max runes, marking the cut with "...".
func TruncateLabel(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}
