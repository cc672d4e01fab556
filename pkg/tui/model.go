// Package tui is a terminal explorer for a built graph. It implements the
// rendering-engine boundary of the interaction package and drives a main and
// an optional fullscreen view from the keyboard.
package tui

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/engine"
	"github.com/DrSkyle/amlgraph/pkg/graph"
	"github.com/DrSkyle/amlgraph/pkg/interaction"
	"github.com/DrSkyle/amlgraph/pkg/layout"
)

type ViewState int

const (
	ViewStateList ViewState = iota
	ViewStateDetail
	ViewStateTopology
	ViewStateHelp
)

// settleDelay is how long a terminal layout run takes to report completion.
const settleDelay = 150 * time.Millisecond

type tickMsg time.Time

// layoutSettledMsg is the renderer's completion signal for one run.
type layoutSettledMsg struct {
	instance string
	run      string
}

// views is shared by every copy of the Model.
type views struct {
	mu        sync.Mutex
	renderers map[string]*Renderer
	selection *interaction.Selection
}

func (v *views) add(r *Renderer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renderers[r.instance] = r
}

func (v *views) renderer(instance string) *Renderer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderers[instance]
}

func (v *views) record(sel interaction.Selection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection = &sel
}

func (v *views) last() *interaction.Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selection
}

func (v *views) clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection = nil
}

type Model struct {
	// core components
	spinner spinner.Model
	Session *interaction.Session
	Result  *engine.Result
	cfg     config.Config
	views   *views

	// state
	state    ViewState
	quitting bool
	width    int
	height   int

	// data
	nodes  []*graph.Node
	layout int

	// feedback
	statusMsg string

	// navigation
	cursor int

	// animation
	tickCount int
}

// NewModel mounts res in a main view. opts configure every controller the
// session creates.
func NewModel(res *engine.Result, cfg config.Config, opts ...interaction.Option) (Model, error) {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = special

	v := &views{renderers: make(map[string]*Renderer)}
	main := NewRenderer(interaction.InstanceMain)
	v.add(main)
	factory := func(instance string) (interaction.Renderer, error) {
		r := NewRenderer(instance)
		v.add(r)
		return r, nil
	}

	opts = append([]interaction.Option{interaction.WithConfig(cfg.Interaction)}, opts...)
	session := interaction.NewSession(main, factory, opts...)
	session.Main().OnSelect(v.record)

	m := Model{
		spinner: s,
		Session: session,
		Result:  res,
		cfg:     cfg,
		views:   v,
		state:   ViewStateList,
	}
	if err := m.reload(res); err != nil {
		return m, err
	}
	return m, nil
}

// reload mounts res in every open view and ranks its nodes.
func (m *Model) reload(res *engine.Result) error {
	if res == nil {
		return fmt.Errorf("nil result")
	}
	m.Result = res
	if err := m.Session.Reload(res.Graph, res.Report, res.Layout.Name); err != nil {
		return fmt.Errorf("load graph: %w", err)
	}
	m.views.clear()
	m.nodes = rankNodes(res)
	m.cursor = 0
	for i, name := range layout.Names() {
		if name == res.Layout.Name {
			m.layout = i
		}
	}
	return nil
}

// rankNodes orders nodes by connected risk, then own risk, then id.
func rankNodes(res *engine.Result) []*graph.Node {
	nodes := append([]*graph.Node(nil), res.Graph.Nodes...)
	connected := func(n *graph.Node) float64 {
		if nm := res.Report.Node(n.ID); nm != nil {
			return nm.ConnectedRisk
		}
		return n.RiskScore
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		ci, cj := connected(nodes[i]), connected(nodes[j])
		if ci != cj {
			return ci > cj
		}
		if nodes[i].RiskScore != nodes[j].RiskScore {
			return nodes[i].RiskScore > nodes[j].RiskScore
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
			return tickMsg(t)
		}),
		m.settle(),
	)
}

// active is the controller receiving keyboard events.
func (m Model) active() *interaction.Controller {
	if fs := m.Session.Fullscreen(); fs != nil {
		return fs
	}
	return m.Session.Main()
}

func (m Model) activeRenderer() *Renderer {
	return m.views.renderer(m.active().Instance())
}

// settle schedules the completion signal of the active view's layout run.
func (m Model) settle() tea.Cmd {
	r := m.activeRenderer()
	if r == nil {
		return nil
	}
	run := r.Pending()
	if run == "" {
		return nil
	}
	instance := r.instance
	return tea.Tick(settleDelay, func(time.Time) tea.Msg {
		return layoutSettledMsg{instance: instance, run: run}
	})
}

func (m Model) current() *graph.Node {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return nil
	}
	return m.nodes[m.cursor]
}
