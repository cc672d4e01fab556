package interaction

import (
	"errors"
	"fmt"
	"sync"

	"github.com/DrSkyle/amlgraph/pkg/analytics"
	"github.com/DrSkyle/amlgraph/pkg/graph"
	"github.com/DrSkyle/amlgraph/pkg/layout"
)

// Instance names.
const (
	InstanceMain       = "main"
	InstanceFullscreen = "fullscreen"
)

// RendererFactory acquires a fresh rendering-engine handle for a view.
type RendererFactory func(instance string) (Renderer, error)

// Session owns the main controller and at most one fullscreen controller.
// Both share the loaded graph read-only and keep separate view state.
type Session struct {
	mu      sync.Mutex
	opts    []Option
	factory RendererFactory

	main       *Controller
	fullscreen *Controller

	g      *graph.Graph
	report *analytics.Report
	layout layout.Name
}

// NewSession creates the main controller on r. factory is used for every
// fullscreen view.
func NewSession(r Renderer, factory RendererFactory, opts ...Option) *Session {
	return &Session{
		opts:    opts,
		factory: factory,
		main:    New(r, append(append([]Option(nil), opts...), WithInstance(InstanceMain))...),
	}
}

// Main returns the main controller.
func (s *Session) Main() *Controller {
	return s.main
}

// Fullscreen returns the open fullscreen controller, or nil.
func (s *Session) Fullscreen() *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullscreen
}

// Reload replaces the graph in every open view. Each view resets to idle.
func (s *Session) Reload(g *graph.Graph, report *analytics.Report, name layout.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g, s.report, s.layout = g, report, name

	err := s.main.Load(g, report, name)
	if s.fullscreen != nil {
		err = errors.Join(err, s.fullscreen.Load(g, report, name))
	}
	return err
}

// OpenFullscreen creates the fullscreen view, or returns the open one.
func (s *Session) OpenFullscreen() (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fullscreen != nil {
		return s.fullscreen, nil
	}
	if s.factory == nil {
		return nil, errors.New("no fullscreen renderer factory")
	}
	r, err := s.factory(InstanceFullscreen)
	if err != nil {
		return nil, fmt.Errorf("acquire fullscreen renderer: %w", err)
	}

	c := New(r, append(append([]Option(nil), s.opts...), WithInstance(InstanceFullscreen))...)
	if s.g != nil {
		if err := c.Load(s.g, s.report, s.layout); err != nil {
			_ = c.Destroy()
			return nil, err
		}
	}
	s.fullscreen = c
	return c, nil
}

// CloseFullscreen destroys the fullscreen view and releases its renderer.
func (s *Session) CloseFullscreen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fullscreen == nil {
		return nil
	}
	c := s.fullscreen
	s.fullscreen = nil
	return c.Destroy()
}

// Close destroys every view.
func (s *Session) Close() error {
	err := s.CloseFullscreen()
	return errors.Join(err, s.main.Destroy())
}
