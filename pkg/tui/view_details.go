package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DrSkyle/amlgraph/pkg/interaction"
)

func (m Model) viewDetails() string {
	sel := m.views.last()
	if sel == nil {
		return "\n   " + subtle.Render("No entity selected. Press enter on a row.")
	}
	if sel.Kind == interaction.KindEdge {
		return m.viewEdgeDetails(sel)
	}

	header := detailsHeaderStyle.Render(fmt.Sprintf("%s : %s", sel.ID, sel.Label))
	if sel.Focus {
		header += " " + highlight.Render("[FOCUS]")
	}

	intel := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("RISK SCORE:     %.0f/100 %s", sel.RiskScore, tierIcon(sel.RiskTier).Render()),
		fmt.Sprintf("CONNECTED RISK: %.1f", sel.ConnectedRisk),
		fmt.Sprintf("CENTRALITY:     %.3f", sel.Centrality),
		fmt.Sprintf("BETWEENNESS:    %.3f", sel.Betweenness),
		fmt.Sprintf("CLOSENESS:      %.3f", sel.Closeness),
	)

	var findings []string
	for _, f := range sel.Findings {
		line := fmt.Sprintf("[%s] %s", f.Kind, f.Reason)
		if f.RuleID != "" {
			line = fmt.Sprintf("[%s:%s] %s", f.Kind, f.RuleID, f.Reason)
		}
		findings = append(findings, danger.Render(line))
	}
	if len(findings) == 0 {
		findings = append(findings, special.Render("No pattern findings."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		intel,
		"",
		highlight.Render("FINDINGS:"),
		strings.Join(findings, "\n"),
		"",
		highlight.Render("NEIGHBORHOOD:"),
		dimStyle.Render(strings.Join(sel.Neighborhood, ", ")),
		"",
		strings.Repeat("─", 50),
		"[F]ocus  E[x]pand  [B]ack",
	)
	return detailsBoxStyle.Render(content)
}

func (m Model) viewEdgeDetails(sel *interaction.Selection) string {
	tier := string(sel.EdgeTier)
	if tier == "" {
		tier = "untagged"
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		detailsHeaderStyle.Render(fmt.Sprintf("%s : %s -> %s", sel.ID, sel.Source, sel.Target)),
		fmt.Sprintf("TYPE:        %s", sel.Type),
		fmt.Sprintf("CONFIDENCE:  %.2f", sel.Confidence),
		fmt.Sprintf("RISK WEIGHT: %.2f", sel.RiskWeight),
		fmt.Sprintf("TIER:        %s", tier),
		"",
		"[B]ack",
	)
	return detailsBoxStyle.Render(content)
}
