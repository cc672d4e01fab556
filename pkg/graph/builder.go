package graph

import "fmt"

// Builder assembles a Graph. Nodes are added first-wins; relationships are
// resolved at Build time so that edges may arrive before their endpoints.
type Builder struct {
	nodes       []*Node
	idMap       map[string]int
	rels        []Relationship
	center      string
	diagnostics Diagnostics
}

func NewBuilder() *Builder {
	return &Builder{idMap: make(map[string]int)}
}

// AddNode clamps the node's ranged fields and stores it. It returns false
// when the id is empty or already present.
func (b *Builder) AddNode(n Node) bool {
	if n.ID == "" {
		b.diagnostics.MissingIDs++
		return false
	}
	if _, exists := b.idMap[n.ID]; exists {
		b.diagnostics.DuplicateNodes++
		return false
	}

	if n.Label == "" {
		n.Label = n.ID
	}
	n.DisplayLabel = TruncateLabel(n.Label, DisplayLabelMax)
	if n.EntityType != EntityOrganization {
		n.EntityType = EntityIndividual
	}
	n.RiskScore = Clamp(n.RiskScore, 0, 100)
	n.Centrality = Clamp(n.Centrality, 0, 1)
	n.Betweenness = Clamp(n.Betweenness, 0, 1)
	n.Closeness = Clamp(n.Closeness, 0, 1)
	if n.ConnectionCount < 0 {
		n.ConnectionCount = 0
	}
	if n.Volume != nil {
		v := *n.Volume
		v.TotalSent = NonNegative(v.TotalSent)
		v.TotalReceived = NonNegative(v.TotalReceived)
		if v.TransactionCount < 0 {
			v.TransactionCount = 0
		}
		n.Volume = &v
	}
	// Derived fields never survive into a new graph.
	n.Tier = NodeTier{}
	n.Style = NodeStyle{}

	node := n
	node.Index = len(b.nodes)
	b.idMap[node.ID] = node.Index
	b.nodes = append(b.nodes, &node)
	return true
}

// AddRelationship queues a relationship for resolution.
func (b *Builder) AddRelationship(r Relationship) {
	b.rels = append(b.rels, r)
}

// SetCenter roots the view on id. Unknown ids are ignored at Build time.
func (b *Builder) SetCenter(id string) {
	b.center = id
}

// SetAdapter records which payload adapter fed the builder.
func (b *Builder) SetAdapter(name string) {
	b.diagnostics.Adapter = name
}

// MarkNoData flags the "no data" state.
func (b *Builder) MarkNoData() {
	b.diagnostics.NoData = true
}

// Build resolves relationships, drops dangling ones, materializes
// bidirectional edges and computes adjacency.
func (b *Builder) Build() *Graph {
	g := &Graph{
		Nodes:       b.nodes,
		Diagnostics: b.diagnostics,
		idMap:       b.idMap,
		edgeMap:     make(map[string]int),
		out:         make([][]int, len(b.nodes)),
		in:          make([][]int, len(b.nodes)),
		neighbors:   make([][]int, len(b.nodes)),
	}
	if g.Nodes == nil {
		g.Nodes = []*Node{}
	}

	for i, r := range b.rels {
		src, okS := g.idMap[r.Source]
		dst, okT := g.idMap[r.Target]
		if !okS || !okT {
			g.Diagnostics.DroppedEdges++
			continue
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("%s-%s-%s-%d", r.Source, r.Target, r.Type, i)
		}
		r.ID = g.freeEdgeID(r, i)
		g.relationships++

		fwd := newEdge(r, false)
		g.addEdge(fwd, src, dst)
		if r.Bidirectional {
			g.addEdge(newEdge(r, true), dst, src)
		}
		g.link(src, dst)
	}

	b.resolveCenter(g)

	for i, n := range g.Nodes {
		if n.ConnectionCount == 0 {
			n.ConnectionCount = len(g.neighbors[i])
		}
	}
	return g
}

// freeEdgeID returns r.ID, or a suffixed variant when it or its materialized
// reverse id is already taken.
func (g *Graph) freeEdgeID(r Relationship, i int) string {
	id := r.ID
	for n := 0; g.edgeIDTaken(id, r.Bidirectional); n++ {
		id = fmt.Sprintf("%s-%d", r.ID, i)
		if n > 0 {
			id = fmt.Sprintf("%s-%d-%d", r.ID, i, n)
		}
	}
	return id
}

func (g *Graph) edgeIDTaken(id string, bidirectional bool) bool {
	if _, ok := g.edgeMap[id]; ok {
		return true
	}
	if bidirectional {
		_, ok := g.edgeMap[id+ReverseSuffix]
		return ok
	}
	return false
}

func newEdge(r Relationship, reverse bool) *Edge {
	e := &Edge{
		ID:             r.ID,
		RelationshipID: r.ID,
		Source:         r.Source,
		Target:         r.Target,
		Type:           r.Type,
		Confidence:     Clamp(r.Confidence, 0, 1),
		RiskWeight:     Clamp(r.RiskWeight, 0, 1),
		Bidirectional:  r.Bidirectional,
		Reverse:        reverse,
	}
	if r.Aggregate != nil {
		agg := *r.Aggregate
		agg.TotalAmount = NonNegative(agg.TotalAmount)
		agg.AvgAmount = NonNegative(agg.AvgAmount)
		agg.AvgRiskScore = Clamp(agg.AvgRiskScore, 0, 100)
		if agg.TransactionCount < 0 {
			agg.TransactionCount = 0
		}
		e.Aggregate = &agg
	}
	if reverse {
		e.ID = r.ID + ReverseSuffix
		e.Source, e.Target = r.Target, r.Source
	}
	return e
}

func (g *Graph) addEdge(e *Edge, src, dst int) {
	e.Index = len(g.Edges)
	g.Edges = append(g.Edges, e)
	g.edgeMap[e.ID] = e.Index
	g.out[src] = append(g.out[src], e.Index)
	g.in[dst] = append(g.in[dst], e.Index)
}

func (g *Graph) link(a, b int) {
	if a == b {
		return
	}
	for _, n := range g.neighbors[a] {
		if n == b {
			return
		}
	}
	g.neighbors[a] = append(g.neighbors[a], b)
	g.neighbors[b] = append(g.neighbors[b], a)
}

// resolveCenter enforces at most one center: an explicit SetCenter wins,
// otherwise the first node that arrived flagged.
func (b *Builder) resolveCenter(g *Graph) {
	center := ""
	if _, ok := g.idMap[b.center]; ok {
		center = b.center
	}
	for _, n := range g.Nodes {
		if center == "" && n.IsCenter {
			center = n.ID
		}
		n.IsCenter = false
	}
	if center != "" {
		g.Nodes[g.idMap[center]].IsCenter = true
	}
	g.Center = center
}
