package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DrSkyle/amlgraph/pkg/graph"
)

type TopologyLine struct {
	ID    string
	Text  string
	Level int
	Edge  *graph.Edge
}

// viewTopology renders the highlighted neighborhood as a tree rooted at the
// selected entity.
func (m Model) viewTopology() string {
	snap := m.activeRenderer().Last()
	if snap.Selected == "" {
		return "\n   " + subtle.Render("Select an entity (enter) or focus one (f) to map its neighborhood.")
	}

	s := strings.Builder{}
	headerTxt := fmt.Sprintf("   %-60s | %s", fmt.Sprintf("NEIGHBORHOOD OF %s", snap.Selected), "EDGE TIER")
	s.WriteString(dimStyle.Render(headerTxt) + "\n")
	s.WriteString(dimStyle.Render("   "+strings.Repeat("─", 60)) + "\n")

	lines := m.buildTopology(snap.Selected, snap.Highlighted)
	for _, line := range lines {
		tier := ""
		if line.Edge != nil {
			tier = string(line.Edge.Tier.Risk)
		}
		text := line.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		display := fmt.Sprintf(" %-60s | %s", text, tier)
		if line.Level == 0 {
			s.WriteString(listSelectedStyle.Render(display) + "\n")
		} else {
			s.WriteString(listNormalStyle.Render(display) + "\n")
		}
	}
	return s.String()
}

// buildTopology flattens the highlight into tree lines: the root, then every
// highlighted edge grouped by its endpoint nearest the root.
func (m Model) buildTopology(root string, highlighted []string) []TopologyLine {
	g := m.Result.Graph
	n := g.Node(root)
	if n == nil {
		return nil
	}
	lines := []TopologyLine{{
		ID:   root,
		Text: fmt.Sprintf("[%s] %s %s", n.Tier.Risk, n.ID, n.DisplayLabel),
	}}

	dist := g.Distances(n.Index)
	var edges []*graph.Edge
	for _, id := range highlighted {
		if e := g.Edge(id); e != nil {
			edges = append(edges, e)
		}
	}
	near := func(e *graph.Edge) int {
		ds, dt := dist[g.IndexOf(e.Source)], dist[g.IndexOf(e.Target)]
		d := ds
		if ds < 0 || (dt >= 0 && dt < ds) {
			d = dt
		}
		if d < 0 {
			return 0
		}
		return d
	}
	sort.SliceStable(edges, func(i, j int) bool {
		di, dj := near(edges[i]), near(edges[j])
		if di != dj {
			return di < dj
		}
		return edges[i].ID < edges[j].ID
	})

	for i, e := range edges {
		prefix := "├── "
		if i == len(edges)-1 {
			prefix = "└── "
		}
		indent := strings.Repeat("│   ", near(e))
		lines = append(lines, TopologyLine{
			ID:    e.ID,
			Text:  fmt.Sprintf("%s%s%s -[%s]-> %s", indent, prefix, e.Source, e.Type, e.Target),
			Level: near(e) + 1,
			Edge:  e,
		})
	}
	return lines
}
