package ecs

import (
	"fmt"

	"github.com/gridsnake/engine/internal/app"
	"github.com/gridsnake/engine/internal/core/event"
	coresys "github.com/gridsnake/engine/internal/core/system"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// System is one unit of per-tick logic. G is the application's global data,
// S the scene state and M the message type carried by the bus.
//
// A system may also implement coresys.Staged to pick its stage,
// event.Receiver to get a bus queue, and Named for logs.
type System[G, S, M any] interface {
	Update(a *app.Application[G], scene *S, w *World[G, S, M]) error
}

// Named is implemented by systems that want a readable name in logs and errors.
type Named interface {
	Name() string
}

func systemName(s any) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// World is the top-level ECS container. It owns the entity manager, the
// component lists, the message bus, the deferred command queue and the
// stage-ordered systems. One World exists per active scene.
type World[G, S, M any] struct {
	Entities   *EntityManager
	Components *ComponentManager
	Bus        *event.Bus[M]
	Commands   *CommandQueue

	runner *coresys.Runner[System[G, S, M]]
	log    *zap.Logger
	tick   uint64
}

func NewWorld[G, S, M any](log *zap.Logger) *World[G, S, M] {
	if log == nil {
		log = zap.NewNop()
	}
	return &World[G, S, M]{
		Entities:   NewEntityManager(),
		Components: NewComponentManager(),
		Bus:        event.NewBus[M](),
		Commands:   NewCommandQueue(),
		runner:     coresys.NewRunner[System[G, S, M]](),
		log:        log,
	}
}

// AddSystem schedules s by its declared stage and registers its bus queue
// when it is a receiver.
func (w *World[G, S, M]) AddSystem(s System[G, S, M]) error {
	if r, ok := s.(event.Receiver); ok {
		if err := w.Bus.Register(r.Receiver()); err != nil {
			return eris.Wrapf(err, "add system %s", systemName(s))
		}
	}
	stage := coresys.StageOf(s)
	w.runner.Register(s, stage)
	w.log.Debug("system registered",
		zap.String("system", systemName(s)),
		zap.Stringer("stage", stage),
	)
	return nil
}

// Update runs one tick: every system once in stage order, then the queued
// commands. The first error aborts the tick: commands still queued are
// discarded and ids created during the tick are released along with any
// components they got.
func (w *World[G, S, M]) Update(a *app.Application[G], scene *S) error {
	w.Entities.Track()
	err := w.runner.Each(func(s System[G, S, M], stage coresys.Stage) error {
		if err := s.Update(a, scene, w); err != nil {
			return eris.Wrapf(err, "tick %d: system %s (%s)", w.tick, systemName(s), stage)
		}
		return nil
	})
	if err != nil {
		w.Commands.Reset()
		w.abort(err)
		return err
	}

	queued := w.Commands.Len()
	if _, err := w.Commands.Flush(w.Entities, w.Components); err != nil {
		err = eris.Wrapf(err, "tick %d: apply commands", w.tick)
		w.abort(err)
		return err
	}
	w.Entities.Commit()
	if queued > 0 {
		w.log.Debug("commands applied",
			zap.Uint64("tick", w.tick),
			zap.Int("count", queued),
			zap.Int("entities", w.Entities.Len()),
		)
	}
	w.tick++
	return nil
}

func (w *World[G, S, M]) abort(err error) {
	released := w.Entities.Rollback()
	for _, id := range released {
		w.Components.RemoveAll(id)
	}
	w.log.Error("tick aborted",
		zap.Uint64("tick", w.tick),
		zap.Int("released", len(released)),
		zap.Error(err),
	)
}

// Tick returns the number of completed ticks.
func (w *World[G, S, M]) Tick() uint64 { return w.tick }

// Systems returns the number of scheduled systems.
func (w *World[G, S, M]) Systems() int { return w.runner.Len() }
