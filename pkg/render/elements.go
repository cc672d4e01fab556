// Package render turns a classified graph into the element list consumed by
// the external graph-drawing engine.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/DrSkyle/amlgraph/pkg/classify"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// Element groups.
const (
	GroupNodes = "nodes"
	GroupEdges = "edges"
)

// Element is one node or edge with its data and space-separated tier tags.
type Element struct {
	Group   string         `json:"group"`
	Data    map[string]any `json:"data"`
	Classes string         `json:"classes"`
}

// ID returns the element id.
func (e Element) ID() string {
	id, _ := e.Data["id"].(string)
	return id
}

// Elements lists nodes then edges in model order. The model is read, never
// written.
func Elements(g *graph.Graph) []Element {
	out := make([]Element, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		out = append(out, NodeElement(n))
	}
	for _, e := range g.Edges {
		out = append(out, EdgeElement(e))
	}
	return out
}

// NodeElement renders one node.
func NodeElement(n *graph.Node) Element {
	data := map[string]any{
		"id":              n.ID,
		"label":           n.DisplayLabel,
		"fullLabel":       n.Label,
		"entityType":      string(n.EntityType),
		"riskScore":       n.RiskScore,
		"riskTier":        string(n.Tier.Risk),
		"centrality":      n.Centrality,
		"betweenness":     n.Betweenness,
		"closeness":       n.Closeness,
		"connectionCount": n.ConnectionCount,
		"isCenter":        n.IsCenter,
		"size":            n.Style.Size,
		"color":           n.Style.Color,
		"shape":           n.Style.Shape,
		"borderWidth":     n.Style.BorderWidth,
	}
	if v := n.Volume; v != nil {
		data["totalSent"] = v.TotalSent
		data["totalReceived"] = v.TotalReceived
		data["transactionCount"] = v.TransactionCount
	}
	return Element{
		Group:   GroupNodes,
		Data:    data,
		Classes: strings.Join(classify.NodeClasses(n), " "),
	}
}

// EdgeElement renders one directed edge.
func EdgeElement(e *graph.Edge) Element {
	data := map[string]any{
		"id":             e.ID,
		"relationshipId": e.RelationshipID,
		"source":         e.Source,
		"target":         e.Target,
		"type":           e.Type,
		"confidence":     e.Confidence,
		"riskWeight":     e.RiskWeight,
		"riskTier":       string(e.Tier.Risk),
		"width":          e.Style.Width,
		"color":          e.Style.Color,
		"lineStyle":      e.Style.LineStyle,
	}
	if a := e.Aggregate; a != nil {
		data["totalAmount"] = a.TotalAmount
		data["avgAmount"] = a.AvgAmount
		data["transactionCount"] = a.TransactionCount
		data["primaryType"] = a.PrimaryType
		if !a.LatestTimestamp.IsZero() {
			data["latestTimestamp"] = a.LatestTimestamp.UTC().Format(time.RFC3339)
		}
	}
	return Element{
		Group:   GroupEdges,
		Data:    data,
		Classes: strings.Join(classify.EdgeClasses(e), " "),
	}
}

// Listing prints one "group id [classes]" line per element.
func Listing(elements []Element) string {
	var b strings.Builder
	for _, el := range elements {
		fmt.Fprintf(&b, "%s %s [%s]\n", el.Group, el.ID(), el.Classes)
	}
	return b.String()
}
