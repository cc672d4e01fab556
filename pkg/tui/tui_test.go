package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/amlgraph/pkg/engine"
	"github.com/DrSkyle/amlgraph/pkg/graph"
	"github.com/DrSkyle/amlgraph/pkg/interaction"
)

// usage: go test ./pkg/tui/...

const network = `{
  "nodes": [
    {"id": "A", "label": "Alpha Holdings", "entity_type": "organization", "risk_score": 95},
    {"id": "B", "label": "Bruno", "risk_score": 50},
    {"id": "C", "label": "Carla", "risk_score": 10}
  ],
  "edges": [
    {"id": "ab", "source": "A", "target": "B", "type": "business_partner", "risk_weight": 0.9},
    {"id": "bc", "source": "B", "target": "C", "type": "family", "risk_weight": 0.2}
  ]
}`

func newExplorer(t *testing.T, payload string) Model {
	t.Helper()
	p, err := engine.New()
	require.NoError(t, err)
	res, err := p.BuildBytes(context.Background(), []byte(payload), graph.FormatJSON, "")
	require.NoError(t, err)
	m, err := NewModel(res, p.Config())
	require.NoError(t, err)
	return m
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestTUI_Rendering(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		want     []string
		dontWant []string
	}{
		{
			name: "List ranks by connected risk",
			want: []string{"ENTITY", "Alpha Holdings", "[ VIEW: main ]", "3 nodes / 2 edges"},
		},
		{
			name:     "Select shows analytics",
			keys:     []string{"enter"},
			want:     []string{"A : Alpha Holdings", "CONNECTED RISK", "BETWEENNESS", "NEIGHBORHOOD:", "[CRITICAL]"},
			dontWant: []string{"[FOCUS]"},
		},
		{
			name: "Select second row",
			keys: []string{"down", "enter"},
			want: []string{"B : Bruno", "[MEDIUM]"},
		},
		{
			name: "Focus maps two hops",
			keys: []string{"f"},
			want: []string{"NEIGHBORHOOD OF A", "A -[business_partner]-> B", "B -[family]-> C"},
		},
		{
			name: "Riskiest relationship",
			keys: []string{"down", "e"},
			want: []string{"ab : A -> B", "TYPE:        business_partner", "TIER:        critical"},
		},
		{
			name:     "Back clears selection",
			keys:     []string{"enter", "b"},
			want:     []string{"ENTITY"},
			dontWant: []string{"CONNECTED RISK"},
		},
		{
			name:     "Zoomed out hides labels",
			keys:     []string{"-", "-", "-", "-"},
			want:     []string{"(none)"},
			dontWant: []string{"Alpha Holdings"},
		},
		{
			name: "Help",
			keys: []string{"?"},
			want: []string{"KEYS", "cycle layout algorithm"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := press(newExplorer(t, network), tc.keys...)
			view := m.View()

			for _, w := range tc.want {
				if !strings.Contains(view, w) {
					t.Errorf("[%s] FAIL: Expected view to contain '%s'.\nGot:\n%s", tc.name, w, view)
				}
			}
			for _, dw := range tc.dontWant {
				if strings.Contains(view, dw) {
					t.Errorf("[%s] FAIL: Expected view NOT to contain '%s'.\nGot:\n%s", tc.name, dw, view)
				}
			}
		})
	}
}

func TestRankNodes(t *testing.T) {
	m := newExplorer(t, network)
	require.Len(t, m.nodes, 3)
	assert.Equal(t, "A", m.nodes[0].ID)
	assert.Equal(t, "C", m.nodes[2].ID)
}

func TestHoverMarksNeighbors(t *testing.T) {
	m := press(newExplorer(t, network), "down")
	snap := m.activeRenderer().Last()
	assert.Equal(t, interaction.StateIdle, snap.State)
	assert.ElementsMatch(t, []string{"B", "A", "C"}, snap.Hovered)
	assert.Contains(t, m.View(), "~ B")
}

func TestLayoutSettles(t *testing.T) {
	m := newExplorer(t, network)
	r := m.activeRenderer()
	run := r.Pending()
	require.NotEmpty(t, run)

	// A signal from an older run is dropped and the current run stays pending.
	next, _ := m.Update(layoutSettledMsg{instance: interaction.InstanceMain, run: "stale"})
	m = next.(Model)
	assert.Equal(t, run, m.Session.Main().Snapshot().LayoutRun)
	assert.Equal(t, run, r.Pending())

	next, _ = m.Update(layoutSettledMsg{instance: interaction.InstanceMain, run: run})
	m = next.(Model)
	assert.Empty(t, m.Session.Main().Snapshot().LayoutRun)
	assert.Empty(t, r.Pending())
}

func TestCycleLayoutReplacesRun(t *testing.T) {
	m := newExplorer(t, network)
	first := m.activeRenderer().Pending()

	next, cmd := m.Update(key("l"))
	m = next.(Model)
	require.NotNil(t, cmd)

	snap := m.Session.Main().Snapshot()
	assert.NotEqual(t, first, snap.LayoutRun)
	assert.Equal(t, snap.Layout, m.activeRenderer().Spec().Name)
}

func TestFullscreenToggle(t *testing.T) {
	m := press(newExplorer(t, network), "enter")
	assert.Equal(t, "A", m.Session.Main().Snapshot().Selected)

	m = press(m, "tab")
	fs := m.Session.Fullscreen()
	require.NotNil(t, fs)
	assert.Contains(t, m.View(), "[ VIEW: fullscreen ]")
	// Fullscreen opens idle; the main selection is untouched.
	assert.Empty(t, fs.Snapshot().Selected)
	assert.Equal(t, "A", m.Session.Main().Snapshot().Selected)

	m = press(m, "down", "enter")
	assert.Equal(t, "B", fs.Snapshot().Selected)
	assert.Equal(t, "A", m.Session.Main().Snapshot().Selected)

	fr := m.views.renderer(interaction.InstanceFullscreen)
	m = press(m, "tab")
	assert.Nil(t, m.Session.Fullscreen())
	assert.True(t, fr.Closed())
	assert.Contains(t, m.View(), "[ VIEW: main ]")
}

func TestEmptyPayload(t *testing.T) {
	m := newExplorer(t, `{"nodes": []}`)
	view := m.View()
	assert.Contains(t, view, "No network data")
}

func TestQuitReleasesRenderers(t *testing.T) {
	m := newExplorer(t, network)
	next, cmd := m.Update(key("q"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.Session.Main().Destroyed())
	assert.True(t, m.views.renderer(interaction.InstanceMain).Closed())
	assert.Empty(t, m.View())
}
