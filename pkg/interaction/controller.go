package interaction

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/DrSkyle/amlgraph/pkg/analytics"
	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/graph"
	"github.com/DrSkyle/amlgraph/pkg/layout"
	"github.com/DrSkyle/amlgraph/pkg/metrics"
	"github.com/DrSkyle/amlgraph/pkg/render"
)

// Controller owns the selection, highlight, viewport and layout-run state of
// one rendered view. It never writes to the graph it is given.
type Controller struct {
	mu sync.Mutex

	id       string
	instance string
	cfg      config.InteractionConfig
	renderer Renderer
	logger   *slog.Logger
	metrics  *metrics.Collector

	g      *graph.Graph
	report *analytics.Report

	state     State
	selected  string
	highlight []string
	hovered   []string
	zoom      float64
	layout    layout.Name
	run       string
	err       error
	destroyed bool

	listeners []func(Selection)
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfig sets zoom thresholds and focus depths.
func WithConfig(cfg config.InteractionConfig) Option {
	return func(c *Controller) {
		c.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records cancelled layouts and renderer failures.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithInstance names the view, e.g. "main" or "fullscreen".
func WithInstance(name string) Option {
	return func(c *Controller) {
		c.instance = name
	}
}

// New creates an idle controller bound to r.
func New(r Renderer, opts ...Option) *Controller {
	c := &Controller{
		id:       uuid.NewString(),
		instance: "main",
		cfg:      config.DefaultInteractionConfig(),
		renderer: r,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.zoom = c.cfg.MidZoom
	c.logger = c.logger.With("instance", c.instance, "controller_id", c.id)
	return c
}

// ID is the unique id of this controller instance.
func (c *Controller) ID() string { return c.id }

// Instance is the view name.
func (c *Controller) Instance() string { return c.instance }

// OnSelect registers a listener for click and focus selections. Listeners run
// after the controller's lock is released.
func (c *Controller) OnSelect(fn func(Selection)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Load replaces the graph, stops any in-flight layout, resets to idle, mounts
// the new elements and starts the given layout.
func (c *Controller) Load(g *graph.Graph, report *analytics.Report, name layout.Name) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	if g == nil {
		g = graph.Empty()
	}

	c.cancelRunLocked()
	c.g = g
	c.report = report
	c.resetLocked()
	c.err = nil

	if err := c.call("mount", func() error { return c.renderer.Mount(render.Elements(g)) }); err != nil {
		c.failLocked(err)
		return nil
	}
	c.startLayoutLocked(name)
	c.applyLocked()
	return nil
}

// ClickNode selects a node and highlights its immediate neighborhood.
func (c *Controller) ClickNode(id string) error {
	return c.selectNode(id, false)
}

// DoubleClick focuses a node: the viewport animates onto it and the prior
// highlight is replaced by its depth-limited neighborhood.
func (c *Controller) DoubleClick(id string) error {
	return c.selectNode(id, true)
}

func (c *Controller) selectNode(id string, focus bool) error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return ErrDestroyed
	}
	if c.g == nil || !c.g.HasNode(id) {
		c.mu.Unlock()
		return nil
	}

	depth := c.cfg.SelectDepth
	if focus {
		depth = c.cfg.FocusDepth
		if err := c.call("animate", func() error { return c.renderer.Animate(id, c.cfg.FocusZoom) }); err != nil {
			c.failLocked(err)
		} else {
			c.zoom = c.cfg.FocusZoom
		}
	}

	c.state = StateNodeFocused
	c.selected = id
	c.highlight = nil
	c.highlightLocked(c.g.Neighborhood(id, depth))
	c.applyLocked()

	sel := nodeSelection(c.g, c.report, id, depth)
	sel.Instance = c.instance
	sel.Focus = focus
	listeners := c.listeners
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(sel)
	}
	return nil
}

// ClickEdge selects an edge and highlights it with its endpoints.
func (c *Controller) ClickEdge(id string) error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return ErrDestroyed
	}
	var e *graph.Edge
	if c.g != nil {
		e = c.g.Edge(id)
	}
	if e == nil {
		c.mu.Unlock()
		return nil
	}

	c.state = StateEdgeFocused
	c.selected = id
	c.highlight = []string{e.Source, e.Target, e.ID}
	c.applyLocked()

	sel := edgeSelection(e)
	sel.Instance = c.instance
	listeners := c.listeners
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(sel)
	}
	return nil
}

// ClickBackground clears the selection and returns to idle.
func (c *Controller) ClickBackground() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	c.state = StateIdle
	c.selected = ""
	c.highlight = nil
	c.applyLocked()
	return nil
}

// Expand adds a node's immediate neighbors to the current highlight.
func (c *Controller) Expand(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	if c.g == nil || !c.g.HasNode(id) {
		return nil
	}
	if c.state == StateIdle {
		c.state = StateNodeFocused
		c.selected = id
	}
	current := c.highlightedNodesLocked()
	c.highlight = nil
	c.highlightLocked(append(current, c.g.Neighborhood(id, 1)...))
	c.applyLocked()
	return nil
}

// Hover overlays a node and its neighbors without touching the selection.
func (c *Controller) Hover(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	if c.g == nil || !c.g.HasNode(id) {
		return nil
	}
	c.hovered = c.g.Neighborhood(id, 1)
	c.applyLocked()
	return nil
}

// HoverEnd removes the hover overlay.
func (c *Controller) HoverEnd() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	c.hovered = nil
	c.applyLocked()
	return nil
}

// Zoom records the viewport zoom and recomputes label level of detail.
func (c *Controller) Zoom(level float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	if level <= 0 {
		return fmt.Errorf("zoom must be positive, got %v", level)
	}
	c.zoom = level
	c.applyLocked()
	return nil
}

// RequestLayout cancels any in-flight run and starts name. The returned run
// id identifies the matching LayoutComplete signal.
func (c *Controller) RequestLayout(name layout.Name) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return "", ErrDestroyed
	}
	if _, err := layout.Lookup(name); err != nil {
		return "", err
	}
	c.cancelRunLocked()
	c.startLayoutLocked(name)
	c.applyLocked()
	return c.run, nil
}

// LayoutComplete handles the renderer's completion signal. Signals from a
// cancelled run are ignored and reported as false.
func (c *Controller) LayoutComplete(run string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return false, ErrDestroyed
	}
	if run == "" || run != c.run {
		c.logger.Debug("Ignoring stale layout completion", "run", run, "active", c.run)
		return false, nil
	}
	c.run = ""
	if err := c.call("fit", c.renderer.Fit); err != nil {
		c.failLocked(err)
	}
	c.applyLocked()
	return true, nil
}

// Destroy stops any layout and releases the renderer. It is idempotent.
func (c *Controller) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil
	}
	c.cancelRunLocked()
	c.destroyed = true
	c.listeners = nil
	c.g = nil
	c.report = nil
	if err := c.call("destroy", c.renderer.Destroy); err != nil {
		c.logger.Warn("Renderer teardown failed", "error", err)
		return err
	}
	return nil
}

// Destroyed reports whether Destroy has run.
func (c *Controller) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Snapshot returns the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	mode := LabelModeFor(c.zoom, c.cfg)
	s := Snapshot{
		Instance:       c.instance,
		State:          c.state,
		Selected:       c.selected,
		Highlighted:    append([]string(nil), c.highlight...),
		Hovered:        append([]string(nil), c.hovered...),
		Zoom:           c.zoom,
		Labels:         mode,
		VisibleLabels:  VisibleLabels(c.g, mode, c.cfg.LabelCentralityCutoff),
		ShowEdgeLabels: mode == LabelsDetailed,
		Layout:         c.layout,
		LayoutRun:      c.run,
	}
	if c.err != nil {
		s.Error = c.err.Error()
	}
	return s
}

func (c *Controller) resetLocked() {
	c.state = StateIdle
	c.selected = ""
	c.highlight = nil
	c.hovered = nil
}

// highlightLocked appends node ids and the edges among the full node set.
func (c *Controller) highlightLocked(nodes []string) {
	seen := make(map[string]bool, len(nodes))
	var ids []string
	for _, id := range nodes {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	c.highlight = append(ids, c.g.EdgesWithin(ids)...)
}

func (c *Controller) highlightedNodesLocked() []string {
	var ids []string
	for _, id := range c.highlight {
		if c.g.HasNode(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Controller) startLayoutLocked(name layout.Name) {
	spec, err := layout.Lookup(name)
	if err != nil {
		c.failLocked(err)
		return
	}
	run := uuid.NewString()
	resolved := spec.Resolve(c.g)
	if err := c.call("start_layout", func() error { return c.renderer.StartLayout(run, resolved) }); err != nil {
		c.failLocked(err)
		return
	}
	c.layout = name
	c.run = run
	c.logger.Debug("Layout started", "layout", string(name), "run", run)
}

// cancelRunLocked stops the active layout run, if any.
func (c *Controller) cancelRunLocked() {
	if c.run == "" {
		return
	}
	run := c.run
	c.run = ""
	c.metrics.LayoutCancelled()
	if err := c.call("stop_layout", func() error { return c.renderer.StopLayout(run) }); err != nil {
		c.logger.Warn("Stopping layout failed", "run", run, "error", err)
	}
}

func (c *Controller) applyLocked() {
	snap := c.snapshotLocked()
	if err := c.call("apply", func() error { return c.renderer.Apply(snap) }); err != nil {
		c.failLocked(err)
	}
}

// failLocked keeps a renderer failure as non-fatal view state.
func (c *Controller) failLocked(err error) {
	c.err = err
	c.logger.Error("Renderer failure", "error", err)
}

// call runs a renderer operation and converts a panic into an error.
func (c *Controller) call(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer %s panicked: %v", op, r)
		}
		if err != nil {
			c.metrics.RendererFailed(op)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("renderer %s: %w", op, err)
	}
	return nil
}
