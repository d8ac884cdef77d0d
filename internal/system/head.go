package system

import (
	"github.com/gridsnake/engine/internal/component"
	"github.com/gridsnake/engine/internal/core/ecs"
	"github.com/gridsnake/engine/internal/core/event"
	coresys "github.com/gridsnake/engine/internal/core/system"
	"github.com/gridsnake/engine/internal/world"
	"go.uber.org/zap"
)

// HeadSystem steers and moves the snake head one cell per GameTick and
// reports what it ran into.
type HeadSystem struct {
	log *zap.Logger
}

func NewHeadSystem(log *zap.Logger) *HeadSystem {
	return &HeadSystem{log: log}
}

func (s *HeadSystem) Name() string               { return "head" }
func (s *HeadSystem) Stage() coresys.Stage       { return coresys.StageGameLogic }
func (s *HeadSystem) Receiver() event.ReceiverID { return event.RecvHead }

func (s *HeadSystem) Update(_ *App, scene *world.State, w *World) error {
	return w.Bus.Drain(event.RecvHead, func(m event.Message) error {
		switch m.Kind {
		case event.Input:
			return s.steer(w, m.Dir)
		case event.GameTick:
			return s.move(scene, w)
		}
		return nil
	})
}

// steer queues a heading for the next move. Turning back onto the body is ignored.
func (s *HeadSystem) steer(w *World, dir component.Direction) error {
	heads, err := ecs.List[component.Head](w.Components)
	if err != nil {
		return err
	}
	if heads.IsEmpty() || dir == component.DirNone {
		return nil
	}
	_, h, err := heads.First()
	if err != nil {
		return err
	}
	if dir == h.Dir.Opposite() {
		return nil
	}
	h.Next = dir
	return nil
}

func (s *HeadSystem) move(scene *world.State, w *World) error {
	heads, pos, err := ecs.Lists2[component.Head, component.Position](w.Components)
	if err != nil {
		return err
	}
	id, h, err := heads.First()
	if err != nil {
		return err
	}
	p, err := pos.Get(id)
	if err != nil {
		return err
	}

	if h.Next != component.DirNone {
		h.Dir = h.Next
	}
	next := p.Step(h.Dir)
	trail := scene.Trail
	scene.Trail = world.Trail{}

	hit, err := s.blocked(scene, w, next, trail)
	if err != nil {
		return err
	}
	if hit {
		if err := s.rollback(scene, w, trail); err != nil {
			return err
		}
		s.log.Info("snake killed",
			zap.Int("x", next.X),
			zap.Int("y", next.Y),
			zap.Int("score", scene.Score),
		)
		return w.Bus.SendTo(event.Message{Kind: event.KillSnake, Score: scene.Score},
			event.RecvClock, event.RecvBoard, event.RecvScore, event.RecvAudio)
	}

	*p = next

	food, err := ecs.List[component.Food](w.Components)
	if err != nil {
		return err
	}
	eaten := false
	ecs.Each2(food, pos, func(_ ecs.EntityID, _ *component.Food, fp *component.Position) {
		if *fp == next {
			eaten = true
		}
	})
	if eaten {
		return w.Bus.SendTo(msg(event.FoodEaten),
			event.RecvBody, event.RecvFood, event.RecvScore, event.RecvAudio)
	}
	return nil
}

// blocked reports whether cell is outside the board, a wall or a body
// segment. The cell a growing tail is about to fill counts as body.
func (s *HeadSystem) blocked(scene *world.State, w *World, cell component.Position, trail world.Trail) (bool, error) {
	if scene.Level != nil && !scene.Level.Inside(cell) {
		return true, nil
	}
	if trail.Tail != 0 && trail.Vacated == cell {
		return true, nil
	}
	walls, bodies, pos, err := ecs.Lists3[component.Wall, component.Body, component.Position](w.Components)
	if err != nil {
		return false, err
	}
	hit := false
	ecs.Each2(walls, pos, func(_ ecs.EntityID, _ *component.Wall, p *component.Position) {
		hit = hit || *p == cell
	})
	ecs.Each2(bodies, pos, func(_ ecs.EntityID, _ *component.Body, p *component.Position) {
		hit = hit || *p == cell
	})
	return hit, nil
}

// rollback puts the body back where it was before this tick's move and
// cancels a tail grown in the same tick. A dead snake stays where it hit.
func (s *HeadSystem) rollback(scene *world.State, w *World, trail world.Trail) error {
	if !trail.Moved {
		return nil
	}
	pos, err := ecs.List[component.Position](w.Components)
	if err != nil {
		return err
	}
	for i, id := range trail.Segments {
		p, err := pos.Get(id)
		if err != nil {
			return err
		}
		if i+1 == len(trail.Segments) {
			*p = trail.Vacated
			continue
		}
		behind, err := pos.Get(trail.Segments[i+1])
		if err != nil {
			return err
		}
		*p = *behind
	}
	if trail.Tail != 0 {
		w.Commands.Kill(trail.Tail)
		scene.Length--
	}
	return nil
}
