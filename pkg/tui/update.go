package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DrSkyle/amlgraph/pkg/graph"
	"github.com/DrSkyle/amlgraph/pkg/interaction"
	"github.com/DrSkyle/amlgraph/pkg/layout"
)

const zoomStep = 1.25

// Update maps keys onto controller events. Event errors are surfaced on the
// status line; the controller itself stays usable.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case layoutSettledMsg:
		m.completeLayout(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		m.tickCount++
		return m, tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.active()
	m.statusMsg = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.report(m.Session.Close())
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.hover(c)

	case "down", "j":
		if m.cursor < len(m.nodes)-1 {
			m.cursor++
		}
		m.hover(c)

	case "enter", " ":
		if n := m.current(); n != nil {
			m.report(c.ClickNode(n.ID))
			m.state = ViewStateDetail
		}

	case "f":
		if n := m.current(); n != nil {
			m.report(c.DoubleClick(n.ID))
			m.state = ViewStateTopology
		}

	case "e":
		if e := m.riskiestEdge(); e != nil {
			m.report(c.ClickEdge(e.ID))
			m.state = ViewStateDetail
		}

	case "x":
		if n := m.current(); n != nil {
			m.report(c.Expand(n.ID))
		}

	case "esc", "b":
		m.report(c.ClickBackground())
		m.report(c.HoverEnd())
		m.views.clear()
		m.state = ViewStateList

	case "+", "=":
		m.report(c.Zoom(c.Snapshot().Zoom * zoomStep))

	case "-", "_":
		m.report(c.Zoom(c.Snapshot().Zoom / zoomStep))

	case "l":
		names := layout.Names()
		m.layout = (m.layout + 1) % len(names)
		_, err := c.RequestLayout(names[m.layout])
		m.report(err)
		return m, m.settle()

	case "tab":
		return m, m.toggleFullscreen()

	case "t":
		m.state = ViewStateTopology

	case "?":
		if m.state == ViewStateHelp {
			m.state = ViewStateList
		} else {
			m.state = ViewStateHelp
		}
	}
	return m, nil
}

// riskiestEdge is the edge of the current row with the highest risk weight.
func (m Model) riskiestEdge() *graph.Edge {
	n := m.current()
	if n == nil {
		return nil
	}
	var best *graph.Edge
	for _, e := range m.Result.Graph.IncidentEdges(n.ID) {
		if best == nil || e.RiskWeight > best.RiskWeight {
			best = e
		}
	}
	return best
}

func (m *Model) hover(c *interaction.Controller) {
	if n := m.current(); n != nil {
		m.report(c.Hover(n.ID))
	}
}

func (m *Model) toggleFullscreen() tea.Cmd {
	if m.Session.Fullscreen() != nil {
		m.report(m.Session.CloseFullscreen())
		m.views.clear()
		return nil
	}
	fs, err := m.Session.OpenFullscreen()
	if err != nil {
		m.report(err)
		return nil
	}
	fs.OnSelect(m.views.record)
	m.views.clear()
	m.state = ViewStateList
	return m.settle()
}

// completeLayout forwards a completion signal. A signal for a run that was
// replaced meanwhile is dropped by the controller.
func (m *Model) completeLayout(msg layoutSettledMsg) {
	r := m.views.renderer(msg.instance)
	if r == nil || r.Closed() {
		return
	}
	var c *interaction.Controller
	switch msg.instance {
	case interaction.InstanceFullscreen:
		c = m.Session.Fullscreen()
	default:
		c = m.Session.Main()
	}
	if c == nil {
		return
	}
	if r.Pending() == msg.run {
		r.Settle()
	}
	_, err := c.LayoutComplete(msg.run)
	m.report(err)
}

func (m *Model) report(err error) {
	if err != nil {
		m.statusMsg = err.Error()
	}
}
