package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridsnake/engine/internal/app"
	"github.com/gridsnake/engine/internal/core/ecs"
	"gotest.tools/v3/assert"
)

type counter struct {
	frames int
	keys   int
}

type testWorld = ecs.World[struct{}, counter, int]

type countSystem struct {
	quitAt int
	err    error
}

func (s *countSystem) Update(a *app.Application[struct{}], c *counter, _ *testWorld) error {
	c.frames++
	c.keys += len(a.Events)
	if s.quitAt > 0 && c.frames == s.quitAt {
		a.Quit()
	}
	return s.err
}

type keyWindow struct {
	polls int
}

func (w *keyWindow) PollEvents() []app.InputEvent {
	w.polls++
	return []app.InputEvent{{Key: app.KeyUp}}
}

func (w *keyWindow) Close() error { return nil }

func factory(sys *countSystem, built *int) SceneFactory[struct{}, counter, int] {
	return func() (*testWorld, *counter, error) {
		*built++
		w := ecs.NewWorld[struct{}, counter, int](nil)
		if err := w.AddSystem(sys); err != nil {
			return nil, nil, err
		}
		return w, &counter{}, nil
	}
}

func TestStepWithoutScene(t *testing.T) {
	var built int
	e := New(app.New(struct{}{}, nil, nil, nil, nil), factory(&countSystem{}, &built), Options{}, nil)
	assert.ErrorIs(t, e.Step(), ErrNoScene)
}

func TestStepPollsWindow(t *testing.T) {
	var built int
	win := &keyWindow{}
	e := New(app.New(struct{}{}, win, nil, nil, nil), factory(&countSystem{}, &built), Options{}, nil)
	assert.NilError(t, e.Activate())
	assert.NilError(t, e.Step())
	assert.NilError(t, e.Step())

	_, c := e.Scene()
	assert.Equal(t, c.frames, 2)
	assert.Equal(t, c.keys, 2)
	assert.Equal(t, win.polls, 2)
	assert.Equal(t, e.Frames(), uint64(2))
}

func TestReloadRebuildsScene(t *testing.T) {
	var built int
	e := New(app.New(struct{}{}, nil, nil, nil, nil), factory(&countSystem{}, &built), Options{}, nil)
	assert.NilError(t, e.Activate())
	assert.NilError(t, e.Step())
	e.Reload()
	assert.NilError(t, e.Step())

	_, c := e.Scene()
	assert.Equal(t, built, 2)
	assert.Equal(t, c.frames, 1)
}

func TestRunStopsAtFrameLimit(t *testing.T) {
	var built int
	e := New(app.New(struct{}{}, nil, nil, nil, nil), factory(&countSystem{}, &built),
		Options{Frame: time.Millisecond, MaxFrames: 5}, nil)
	assert.NilError(t, e.Activate())
	assert.NilError(t, e.Run(context.Background()))
	assert.Equal(t, e.Frames(), uint64(5))
}

func TestRunStopsOnQuit(t *testing.T) {
	var built int
	a := app.New(struct{}{}, nil, nil, nil, nil)
	e := New(a, factory(&countSystem{quitAt: 3}, &built), Options{Frame: time.Millisecond}, nil)
	assert.NilError(t, e.Activate())
	assert.NilError(t, e.Run(context.Background()))
	assert.Equal(t, e.Frames(), uint64(3))
	assert.Assert(t, !a.Running())
}

func TestRunReturnsFrameError(t *testing.T) {
	boom := errors.New("boom")
	var built int
	e := New(app.New(struct{}{}, nil, nil, nil, nil), factory(&countSystem{err: boom}, &built),
		Options{Frame: time.Millisecond}, nil)
	assert.NilError(t, e.Activate())
	err := e.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, e.Frames(), uint64(0))
}

func TestRunStopsOnCancel(t *testing.T) {
	var built int
	e := New(app.New(struct{}{}, nil, nil, nil, nil), factory(&countSystem{}, &built),
		Options{Frame: time.Hour}, nil)
	assert.NilError(t, e.Activate())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NilError(t, e.Run(ctx))
	assert.Equal(t, e.Frames(), uint64(0))
}

func TestActivateFailure(t *testing.T) {
	boom := errors.New("no level")
	e := New(app.New(struct{}{}, nil, nil, nil, nil),
		func() (*testWorld, *counter, error) { return nil, nil, boom }, Options{}, nil)
	assert.ErrorIs(t, e.Activate(), boom)
}
