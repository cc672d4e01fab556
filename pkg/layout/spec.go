package layout

import (
	"errors"
	"fmt"

	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// ErrUnknownLayout is returned by Lookup for unregistered names.
var ErrUnknownLayout = errors.New("unknown layout")

// Spec is a named layout whose force and spacing parameters are functions
// of live node and edge attributes.
type Spec struct {
	Name Name
	// Randomize lets the rendering engine seed positions randomly.
	Randomize bool

	EdgeLength     func(e *graph.Edge) float64
	NodeRepulsion  func(n *graph.Node) float64
	NodeSeparation func(n *graph.Node) float64
	// ConcentricLevel is nil for layouts without rings; higher is closer to the middle.
	ConcentricLevel func(n *graph.Node) float64
}

// Resolved is a Spec evaluated against one graph.
type Resolved struct {
	Name           Name               `json:"name"`
	Randomize      bool               `json:"randomize"`
	EdgeLength     map[string]float64 `json:"edgeLength"`
	NodeRepulsion  map[string]float64 `json:"nodeRepulsion"`
	NodeSeparation map[string]float64 `json:"nodeSeparation"`
	Levels         map[string]float64 `json:"levels,omitempty"`
}

// Resolve evaluates every parameter function over g.
func (s Spec) Resolve(g *graph.Graph) Resolved {
	r := Resolved{
		Name:           s.Name,
		Randomize:      s.Randomize,
		EdgeLength:     make(map[string]float64, len(g.Edges)),
		NodeRepulsion:  make(map[string]float64, len(g.Nodes)),
		NodeSeparation: make(map[string]float64, len(g.Nodes)),
	}
	for _, e := range g.Edges {
		r.EdgeLength[e.ID] = s.EdgeLength(e)
	}
	for _, n := range g.Nodes {
		r.NodeRepulsion[n.ID] = s.NodeRepulsion(n)
		r.NodeSeparation[n.ID] = s.NodeSeparation(n)
	}
	if s.ConcentricLevel != nil {
		r.Levels = make(map[string]float64, len(g.Nodes))
		for _, n := range g.Nodes {
			r.Levels[n.ID] = s.ConcentricLevel(n)
		}
	}
	return r
}

func halfSize(n *graph.Node) float64 { return n.Style.Size / 2 }

var specs = map[Name]Spec{
	ForceDirected: {
		Name:      ForceDirected,
		Randomize: true,
		// Risky connections pull their endpoints closer.
		EdgeLength:     func(e *graph.Edge) float64 { return 100 - 50*e.RiskWeight },
		NodeRepulsion:  func(n *graph.Node) float64 { return 4000 + 4000*n.Centrality },
		NodeSeparation: func(n *graph.Node) float64 { return 40 + halfSize(n) },
	},
	Hierarchical: {
		Name:           Hierarchical,
		EdgeLength:     func(e *graph.Edge) float64 { return 80 + 20*(1-e.Confidence) },
		NodeRepulsion:  func(*graph.Node) float64 { return 2000 },
		NodeSeparation: func(n *graph.Node) float64 { return 50 + halfSize(n) },
	},
	RiskFocused: {
		Name:            RiskFocused,
		EdgeLength:      func(e *graph.Edge) float64 { return 60 + 80*(1-e.RiskWeight) },
		NodeRepulsion:   func(n *graph.Node) float64 { return 2000 + 60*n.RiskScore },
		NodeSeparation:  func(n *graph.Node) float64 { return 30 + halfSize(n) },
		ConcentricLevel: centered(func(n *graph.Node) float64 { return n.RiskScore / 10 }),
	},
	Concentric: {
		Name:            Concentric,
		EdgeLength:      func(e *graph.Edge) float64 { return 50 + 50*(1-e.RiskWeight) },
		NodeRepulsion:   func(n *graph.Node) float64 { return 1000 + 2000*n.Centrality },
		NodeSeparation:  func(n *graph.Node) float64 { return 10 + halfSize(n) },
		ConcentricLevel: centered(func(n *graph.Node) float64 { return n.Centrality * 10 }),
	},
	Circular: {
		Name:           Circular,
		EdgeLength:     func(e *graph.Edge) float64 { return 100 - 40*e.RiskWeight },
		NodeRepulsion:  func(*graph.Node) float64 { return 3000 },
		NodeSeparation: func(n *graph.Node) float64 { return 30 + halfSize(n) },
	},
}

// centered puts the center node on the innermost ring.
func centered(level func(*graph.Node) float64) func(*graph.Node) float64 {
	return func(n *graph.Node) float64 {
		if n.IsCenter {
			return 11
		}
		return level(n)
	}
}

// Lookup returns the spec for name.
func Lookup(name Name) (Spec, error) {
	s, ok := specs[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	return s, nil
}

// Names lists the layouts in decision-list order.
func Names() []Name {
	return []Name{Hierarchical, RiskFocused, Concentric, Circular, ForceDirected}
}
