package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/DrSkyle/amlgraph/pkg/graph"
)

var (
	// Slate palette
	colorNeonGreen  = lipgloss.Color("#00FF99")
	colorNeonPurple = lipgloss.Color("#874BFD")
	colorTextMain   = lipgloss.Color("#E2E8F0")
	colorTextSub    = lipgloss.Color("#64748B")
	colorDanger     = lipgloss.Color("#FF0055")
	colorHigh       = lipgloss.Color("#F97316")
	colorWarning    = lipgloss.Color("#F59E0B")

	subtle    = lipgloss.NewStyle().Foreground(colorTextSub)
	dimStyle  = lipgloss.NewStyle().Foreground(colorTextSub)
	highlight = lipgloss.NewStyle().Foreground(colorNeonPurple).Bold(true)
	special   = lipgloss.NewStyle().Foreground(colorNeonGreen).Bold(true)
	danger    = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	warning   = lipgloss.NewStyle().Foreground(colorWarning)

	hudStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorNeonPurple).
			Padding(0, 1).
			Foreground(colorTextMain)

	hudLabelStyle = lipgloss.NewStyle().
			Foreground(colorTextSub).
			Bold(true).
			MarginRight(1)

	hudValueStyle = lipgloss.NewStyle().
			Foreground(colorNeonGreen).
			Bold(true)

	listSelectedStyle = lipgloss.NewStyle().
				Foreground(colorTextMain).
				Background(lipgloss.Color("#331832")).
				Bold(true)

	listNormalStyle = lipgloss.NewStyle().
			Foreground(colorTextSub)

	iconCritical = lipgloss.NewStyle().Foreground(colorDanger).SetString("[CRITICAL]")
	iconHigh     = lipgloss.NewStyle().Foreground(colorHigh).SetString("[HIGH]")
	iconMedium   = lipgloss.NewStyle().Foreground(colorWarning).SetString("[MEDIUM]")
	iconLow      = lipgloss.NewStyle().Foreground(colorNeonGreen).SetString("[LOW]")

	detailsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorNeonGreen).
			Padding(1, 2).
			MarginTop(1)

	detailsHeaderStyle = lipgloss.NewStyle().
				Foreground(colorNeonPurple).
				Bold(true).
				Underline(true).
				MarginBottom(1)
)

// tierStyle colours a row by node risk tier.
func tierStyle(t graph.RiskTier) lipgloss.Style {
	switch t {
	case graph.RiskCritical:
		return lipgloss.NewStyle().Foreground(colorDanger)
	case graph.RiskHigh:
		return lipgloss.NewStyle().Foreground(colorHigh)
	case graph.RiskMedium:
		return lipgloss.NewStyle().Foreground(colorWarning)
	default:
		return listNormalStyle
	}
}

func tierIcon(t graph.RiskTier) lipgloss.Style {
	switch t {
	case graph.RiskCritical:
		return iconCritical
	case graph.RiskHigh:
		return iconHigh
	case graph.RiskMedium:
		return iconMedium
	default:
		return iconLow
	}
}

func helpStyle(s string) string {
	return subtle.Render(s)
}
