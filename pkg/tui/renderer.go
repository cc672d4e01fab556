package tui

import (
	"errors"
	"sync"

	"github.com/DrSkyle/amlgraph/pkg/interaction"
	"github.com/DrSkyle/amlgraph/pkg/layout"
	"github.com/DrSkyle/amlgraph/pkg/render"
)

var errRendererClosed = errors.New("terminal renderer closed")

// Renderer is the terminal rendering engine. It keeps the mounted elements and
// the last pushed snapshot for the views to draw; layouts settle after one
// model tick.
type Renderer struct {
	mu       sync.Mutex
	instance string

	elements []render.Element
	spec     layout.Resolved
	pending  string
	focus    string
	zoom     float64
	fits     int
	snap     interaction.Snapshot
	closed   bool
}

// NewRenderer returns a renderer for the named view.
func NewRenderer(instance string) *Renderer {
	return &Renderer{instance: instance}
}

func (r *Renderer) Mount(elements []render.Element) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errRendererClosed
	}
	r.elements = elements
	r.focus = ""
	return nil
}

func (r *Renderer) StartLayout(run string, spec layout.Resolved) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errRendererClosed
	}
	r.pending = run
	r.spec = spec
	return nil
}

func (r *Renderer) StopLayout(run string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == run {
		r.pending = ""
	}
	return nil
}

func (r *Renderer) Animate(nodeID string, zoom float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errRendererClosed
	}
	r.focus = nodeID
	r.zoom = zoom
	return nil
}

func (r *Renderer) Fit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errRendererClosed
	}
	r.fits++
	r.focus = ""
	return nil
}

func (r *Renderer) Apply(s interaction.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errRendererClosed
	}
	r.snap = s
	return nil
}

func (r *Renderer) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.elements = nil
	r.pending = ""
	return nil
}

// Pending returns the run id of the layout in flight, or "".
func (r *Renderer) Pending() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Settle clears the pending run and returns it.
func (r *Renderer) Settle() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	run := r.pending
	r.pending = ""
	return run
}

// Last returns the most recent snapshot.
func (r *Renderer) Last() interaction.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Elements returns the mounted element list.
func (r *Renderer) Elements() []render.Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elements
}

// Spec returns the parameters of the last started layout.
func (r *Renderer) Spec() layout.Resolved {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.spec
}

// Focus returns the node the viewport is centered on, if any.
func (r *Renderer) Focus() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focus
}

// Closed reports whether Destroy has run.
func (r *Renderer) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
