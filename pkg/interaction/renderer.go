// Package interaction is the selection, highlight and viewport state machine
// that drives an external rendering engine. Each rendered view owns one
// Controller; a Session pairs the main view with an optional fullscreen view.
package interaction

import (
	"errors"

	"github.com/DrSkyle/amlgraph/pkg/layout"
	"github.com/DrSkyle/amlgraph/pkg/render"
)

// ErrDestroyed is returned by every event after Destroy.
var ErrDestroyed = errors.New("controller destroyed")

// State is the selection state of one controller.
type State string

const (
	StateIdle        State = "idle"
	StateNodeFocused State = "node-focused"
	StateEdgeFocused State = "edge-focused"
)

// LabelMode is the level of detail picked from the zoom level.
type LabelMode int

const (
	LabelsNone LabelMode = iota
	LabelsCentral
	LabelsAll
	LabelsDetailed
)

func (m LabelMode) String() string {
	switch m {
	case LabelsNone:
		return "none"
	case LabelsCentral:
		return "central"
	case LabelsAll:
		return "all"
	case LabelsDetailed:
		return "detailed"
	default:
		return "unknown"
	}
}

// Renderer is the boundary to the graph-drawing engine. Implementations own
// the engine's resources and must release them in Destroy.
type Renderer interface {
	Mount(elements []render.Element) error
	StartLayout(run string, spec layout.Resolved) error
	StopLayout(run string) error
	Animate(nodeID string, zoom float64) error
	Fit() error
	Apply(s Snapshot) error
	Destroy() error
}

// Snapshot is the full view state pushed to the renderer after every event.
type Snapshot struct {
	Instance string
	State    State
	Selected string
	// Highlighted holds node ids followed by the edge ids between them.
	Highlighted []string
	// Hovered is a transient overlay, independent of Highlighted.
	Hovered        []string
	Zoom           float64
	Labels         LabelMode
	VisibleLabels  []string
	ShowEdgeLabels bool
	Layout         layout.Name
	LayoutRun      string
	Error          string
}

// IsHighlighted reports whether id is in the highlight set.
func (s Snapshot) IsHighlighted(id string) bool {
	for _, h := range s.Highlighted {
		if h == id {
			return true
		}
	}
	return false
}
