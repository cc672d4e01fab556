package tui

import (
	"strings"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.Result.Empty() {
		msg := "\n\n   " + iconLow.Render() + subtle.Render("  No network data. Nothing to render.")
		if m.Result != nil && m.Result.Reason != nil {
			msg += "\n   " + dimStyle.Render(m.Result.Reason.Error())
		}
		return msg + "\n\n   " + helpStyle("q: quit")
	}

	s := strings.Builder{}
	s.WriteString(m.viewHUD())
	s.WriteString("\n")

	switch m.state {
	case ViewStateDetail:
		s.WriteString(m.viewDetails())
	case ViewStateTopology:
		s.WriteString(m.viewTopology())
	case ViewStateHelp:
		s.WriteString(m.viewHelp())
	default:
		s.WriteString(m.viewList())
	}

	s.WriteString("\n")
	if snap := m.activeRenderer().Last(); snap.Error != "" {
		s.WriteString(danger.Render("RENDERER: "+snap.Error) + "\n")
	}
	if m.statusMsg != "" {
		s.WriteString(warning.Render(m.statusMsg) + "\n")
	}
	s.WriteString(helpStyle("enter: select • f: focus • x: expand • b: back • +/-: zoom • l: layout • tab: fullscreen • ?: help • q: quit"))
	return s.String()
}

func (m Model) viewHelp() string {
	rows := []string{
		"up/down, k/j   move; hovering an entity outlines its neighbors",
		"enter          select entity and highlight direct neighbors",
		"e              select the entity's riskiest relationship",
		"f              focus: center the view and highlight two hops",
		"x              expand the highlight by the entity's neighbors",
		"b, esc         clear selection",
		"+ / -          zoom in / out (controls label detail)",
		"l              cycle layout algorithm",
		"t              neighborhood tree of the highlight",
		"tab            open or close the fullscreen view",
	}
	return detailsBoxStyle.Render(highlight.Render("KEYS") + "\n\n" + strings.Join(rows, "\n"))
}
