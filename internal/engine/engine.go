package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gridsnake/engine/internal/app"
	"github.com/gridsnake/engine/internal/core/ecs"
	"go.uber.org/zap"
)

// ErrNoScene is returned when a frame runs before any scene was activated.
var ErrNoScene = errors.New("engine: no active scene")

// DefaultFrame is roughly 60 frames per second.
const DefaultFrame = 16 * time.Millisecond

// SceneFactory builds a fresh world and its scene state.
type SceneFactory[G, S, M any] func() (*ecs.World[G, S, M], *S, error)

// Options controls frame pacing.
type Options struct {
	Frame     time.Duration // period between frames
	MaxFrames int           // stop after this many frames, 0 = unbounded
}

// Engine hosts one active scene and drives it one World.Update per frame.
// Reload may be called from any goroutine; everything else belongs to the
// goroutine running Run.
type Engine[G, S, M any] struct {
	app     *app.Application[G]
	factory SceneFactory[G, S, M]
	opts    Options
	log     *zap.Logger

	mu     sync.Mutex
	world  *ecs.World[G, S, M]
	scene  *S
	reload bool

	frames uint64
}

func New[G, S, M any](a *app.Application[G], factory SceneFactory[G, S, M], opts Options, log *zap.Logger) *Engine[G, S, M] {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Frame <= 0 {
		opts.Frame = DefaultFrame
	}
	return &Engine[G, S, M]{
		app:     a,
		factory: factory,
		opts:    opts,
		log:     log,
	}
}

// Activate replaces the current scene with a freshly built one.
func (e *Engine[G, S, M]) Activate() error {
	w, scene, err := e.factory()
	if err != nil {
		return fmt.Errorf("activate scene: %w", err)
	}
	e.mu.Lock()
	e.world, e.scene, e.reload = w, scene, false
	e.mu.Unlock()
	e.log.Info("scene activated", zap.Int("systems", w.Systems()))
	return nil
}

// Reload asks for the scene to be rebuilt before the next frame.
func (e *Engine[G, S, M]) Reload() {
	e.mu.Lock()
	e.reload = true
	e.mu.Unlock()
}

// Scene returns the active world and scene state.
func (e *Engine[G, S, M]) Scene() (*ecs.World[G, S, M], *S) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world, e.scene
}

// Frames returns how many frames completed.
func (e *Engine[G, S, M]) Frames() uint64 { return e.frames }

// Step runs a single frame: pending reload, input poll, world update.
func (e *Engine[G, S, M]) Step() error {
	e.mu.Lock()
	reload := e.reload
	e.mu.Unlock()
	if reload {
		if err := e.Activate(); err != nil {
			return err
		}
	}

	w, scene := e.Scene()
	if w == nil {
		return ErrNoScene
	}
	if e.app.Window != nil {
		e.app.PollEvents()
	} else {
		e.app.Events = e.app.Events[:0]
	}
	if err := w.Update(e.app, scene); err != nil {
		return fmt.Errorf("frame %d: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Run paces frames at the configured period until ctx ends, the application
// quits, MaxFrames is reached or a frame fails.
func (e *Engine[G, S, M]) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.opts.Frame)
	defer ticker.Stop()

	e.log.Info("game loop started",
		zap.Duration("frame", e.opts.Frame),
		zap.Int("max_frames", e.opts.MaxFrames),
	)
	for {
		select {
		case <-ticker.C:
			if err := e.Step(); err != nil {
				return err
			}
			if !e.app.Running() {
				e.log.Info("quit requested", zap.Uint64("frames", e.frames))
				return nil
			}
			if e.opts.MaxFrames > 0 && e.frames >= uint64(e.opts.MaxFrames) {
				e.log.Info("frame limit reached", zap.Uint64("frames", e.frames))
				return nil
			}
		case <-ctx.Done():
			e.log.Info("game loop stopped", zap.Uint64("frames", e.frames))
			return nil
		}
	}
}
