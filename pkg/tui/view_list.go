package tui

import (
	"fmt"
	"strings"

	"github.com/DrSkyle/amlgraph/pkg/analytics"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

func (m Model) viewList() string {
	s := strings.Builder{}
	snap := m.activeRenderer().Last()

	visible := make(map[string]bool, len(snap.VisibleLabels))
	for _, id := range snap.VisibleLabels {
		visible[id] = true
	}
	hovered := make(map[string]bool, len(snap.Hovered))
	for _, id := range snap.Hovered {
		hovered[id] = true
	}

	start, end := m.calculateWindow(len(m.nodes))

	headerTxt := fmt.Sprintf("     %-20s | %-20s | %-12s | %-5s | %-9s | %s", "ENTITY", "LABEL", "TYPE", "RISK", "CONN RISK", "FLAGS")
	s.WriteString(dimStyle.Render(headerTxt) + "\n")
	s.WriteString(dimStyle.Render("  "+strings.Repeat("─", 90)) + "\n")

	for i := start; i < end; i++ {
		n := m.nodes[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		// "*" highlighted, "~" hover overlay
		marker := " "
		switch {
		case snap.IsHighlighted(n.ID):
			marker = "*"
		case hovered[n.ID]:
			marker = "~"
		}

		label := ""
		if visible[n.ID] {
			label = n.DisplayLabel
		}

		connected := n.RiskScore
		var flags string
		if nm := m.Result.Report.Node(n.ID); nm != nil {
			connected = nm.ConnectedRisk
			flags = flagList(nm.Findings)
		}
		if n.IsCenter {
			flags = strings.TrimPrefix(flags+",center", ",")
		}

		base := fmt.Sprintf("%-20s | %-20s | %-12s | %5.0f | %9.1f | %s",
			truncate(n.ID, 20), label, string(n.EntityType), n.RiskScore, connected, flags)
		base = tierStyle(n.Tier.Risk).Render(base)

		line := cursor + marker + " " + base
		if i == m.cursor {
			s.WriteString(listSelectedStyle.Render(line) + "\n")
		} else {
			s.WriteString(listNormalStyle.Render(line) + "\n")
		}
	}
	if end < len(m.nodes) {
		s.WriteString(dimStyle.Render(fmt.Sprintf("   ... %d more", len(m.nodes)-end)) + "\n")
	}
	return s.String()
}

// flagList joins the distinct finding kinds of one node.
func flagList(findings []analytics.Finding) string {
	seen := make(map[analytics.FindingKind]bool)
	var kinds []string
	for _, f := range findings {
		if !seen[f.Kind] {
			seen[f.Kind] = true
			kinds = append(kinds, string(f.Kind))
		}
	}
	return strings.Join(kinds, ",")
}

func truncate(s string, max int) string {
	return graph.TruncateLabel(s, max)
}

func (m Model) calculateWindow(total int) (int, int) {
	windowSize := m.height - 8
	if windowSize < 5 {
		windowSize = 5
	}

	start := m.cursor - (windowSize / 2)
	if start < 0 {
		start = 0
	}

	end := start + windowSize
	if end > total {
		end = total
		start = end - windowSize
		if start < 0 {
			start = 0
		}
	}
	return start, end
}
