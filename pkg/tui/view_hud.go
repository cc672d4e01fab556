package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DrSkyle/amlgraph/pkg/version"
)

func (m Model) viewHUD() string {
	snap := m.activeRenderer().Last()

	status := string(snap.Layout)
	statusColor := special
	if snap.LayoutRun != "" {
		status = fmt.Sprintf("%s%s", snap.Layout, strings.Repeat(".", m.tickCount%4))
		statusColor = warning
	}

	segTitle := highlight.Render(fmt.Sprintf("AMLGRAPH %s", version.Current))
	segView := subtle.Render(fmt.Sprintf("[ VIEW: %s ]", snap.Instance))
	segLayout := hudLabelStyle.Render("LAYOUT:") + statusColor.Render(status)
	segZoom := hudLabelStyle.Render("ZOOM:") + hudValueStyle.Render(fmt.Sprintf("%.2f (%s)", snap.Zoom, snap.Labels))

	stats := m.Result.Stats
	segGraph := hudLabelStyle.Render("GRAPH:") + hudValueStyle.Render(fmt.Sprintf("%d nodes / %d edges", stats.Nodes, stats.Edges))
	riskColor := special
	if stats.HighRiskNodes > 0 {
		riskColor = danger
	}
	segRisk := hudLabelStyle.Render("HIGH RISK:") + riskColor.Render(fmt.Sprintf("%d", stats.HighRiskNodes))

	width := m.width - 4
	if width < 0 {
		width = 0
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center, segTitle, "  ", segView, "  ", segLayout)
	right := lipgloss.JoinHorizontal(lipgloss.Center, segZoom, "  |  ", segGraph, "  |  ", segRisk)

	spacer := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacer < 2 {
		spacer = 2
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		left,
		lipgloss.NewStyle().Width(spacer).Render(""),
		right,
	)

	if m.width > 2 {
		return hudStyle.Width(m.width - 2).Render(content)
	}
	return hudStyle.Render(content)
}
