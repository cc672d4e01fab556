package interaction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/amlgraph/pkg/layout"
)

type factory struct {
	made []*fakeRenderer
	err  error
}

func (f *factory) new(string) (Renderer, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := &fakeRenderer{}
	f.made = append(f.made, r)
	return r, nil
}

func TestFullscreenIndependentState(t *testing.T) {
	main := &fakeRenderer{}
	f := &factory{}
	s := NewSession(main, f.new)
	g, r := chain(t)
	require.NoError(t, s.Reload(g, r, layout.ForceDirected))

	require.NoError(t, s.Main().ClickNode("A"))

	full, err := s.OpenFullscreen()
	require.NoError(t, err)
	assert.Equal(t, InstanceFullscreen, full.Instance())
	assert.NotEqual(t, s.Main().ID(), full.ID())
	require.Len(t, f.made, 1)
	assert.Equal(t, 1, f.made[0].mounted)

	// Fullscreen starts idle and its selection does not leak into main.
	assert.Equal(t, StateIdle, full.Snapshot().State)
	require.NoError(t, full.DoubleClick("E"))
	assert.Equal(t, "A", s.Main().Snapshot().Selected)
	assert.Equal(t, "E", full.Snapshot().Selected)
	assert.NotEqual(t, s.Main().Snapshot().LayoutRun, full.Snapshot().LayoutRun)

	again, err := s.OpenFullscreen()
	require.NoError(t, err)
	assert.Same(t, full, again)
}

func TestFullscreenDestroyAndRecreate(t *testing.T) {
	f := &factory{}
	s := NewSession(&fakeRenderer{}, f.new)
	g, r := chain(t)
	require.NoError(t, s.Reload(g, r, layout.ForceDirected))

	first, err := s.OpenFullscreen()
	require.NoError(t, err)
	require.NoError(t, s.CloseFullscreen())
	assert.True(t, first.Destroyed())
	assert.Equal(t, 1, f.made[0].destroyed)
	assert.Len(t, f.made[0].stopped, 1)
	assert.Nil(t, s.Fullscreen())
	require.NoError(t, s.CloseFullscreen())

	second, err := s.OpenFullscreen()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	require.Len(t, f.made, 2)
	assert.Equal(t, 0, f.made[1].destroyed)

	// The main view is unaffected by the fullscreen lifecycle.
	assert.False(t, s.Main().Destroyed())
	require.NoError(t, s.Main().ClickNode("B"))

	require.NoError(t, s.Close())
	assert.True(t, s.Main().Destroyed())
	assert.True(t, second.Destroyed())
}

func TestReloadResetsBothViews(t *testing.T) {
	f := &factory{}
	s := NewSession(&fakeRenderer{}, f.new)
	g, r := chain(t)
	require.NoError(t, s.Reload(g, r, layout.ForceDirected))
	full, err := s.OpenFullscreen()
	require.NoError(t, err)

	require.NoError(t, s.Main().ClickNode("A"))
	require.NoError(t, full.ClickNode("E"))

	g2, r2 := chain(t)
	require.NoError(t, s.Reload(g2, r2, layout.Circular))
	assert.Equal(t, StateIdle, s.Main().Snapshot().State)
	assert.Equal(t, StateIdle, full.Snapshot().State)
	assert.Equal(t, layout.Circular, full.Snapshot().Layout)
}

func TestOpenFullscreenFactoryError(t *testing.T) {
	s := NewSession(&fakeRenderer{}, (&factory{err: errors.New("no canvas")}).new)
	_, err := s.OpenFullscreen()
	assert.ErrorContains(t, err, "no canvas")
	assert.Nil(t, s.Fullscreen())
}
