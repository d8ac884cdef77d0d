package system

import (
	"sort"

	"github.com/gridsnake/engine/internal/component"
	"github.com/gridsnake/engine/internal/core/ecs"
	"github.com/gridsnake/engine/internal/core/event"
	coresys "github.com/gridsnake/engine/internal/core/system"
	"github.com/gridsnake/engine/internal/world"
)

// BodySystem makes the segments follow the head and grows the tail after
// food. It must run before HeadSystem so segment 0 steps onto the cell the
// head is about to leave.
type BodySystem struct {
	pending int // segments still to grow
}

func NewBodySystem() *BodySystem { return &BodySystem{} }

func (s *BodySystem) Name() string               { return "body" }
func (s *BodySystem) Stage() coresys.Stage       { return coresys.StageGameLogic }
func (s *BodySystem) Receiver() event.ReceiverID { return event.RecvBody }

func (s *BodySystem) Update(a *App, scene *world.State, w *World) error {
	return w.Bus.Drain(event.RecvBody, func(m event.Message) error {
		switch m.Kind {
		case event.Init:
			s.pending = 0
		case event.FoodEaten:
			if a != nil && a.Global != nil && a.Global.Rules != nil {
				s.pending += a.Global.Rules.Growth(scene.Length)
			} else {
				s.pending++
			}
		case event.GameTick:
			return s.follow(scene, w)
		}
		return nil
	})
}

type segment struct {
	id    ecs.EntityID
	order int
	pos   *component.Position
}

func (s *BodySystem) follow(scene *world.State, w *World) error {
	heads, bodies, pos, err := ecs.Lists3[component.Head, component.Body, component.Position](w.Components)
	if err != nil {
		return err
	}
	id, _, err := heads.First()
	if err != nil {
		return err
	}
	hp, err := pos.Get(id)
	if err != nil {
		return err
	}

	segs := make([]segment, 0, bodies.Len())
	ecs.Each2(bodies, pos, func(id ecs.EntityID, b *component.Body, p *component.Position) {
		segs = append(segs, segment{id: id, order: b.Order, pos: p})
	})
	sort.Slice(segs, func(i, j int) bool { return segs[i].order < segs[j].order })

	trail := world.Trail{Moved: true, Segments: make([]ecs.EntityID, len(segs))}
	prev := *hp
	for i, seg := range segs {
		prev, *seg.pos = *seg.pos, prev
		trail.Segments[i] = seg.id
	}
	trail.Vacated = prev

	if s.pending > 0 {
		s.pending--
		trail.Tail = w.Entities.Create()
		ecs.Spawn(w.Commands, trail.Tail, prev)
		ecs.Spawn(w.Commands, trail.Tail, component.Body{Order: len(segs)})
		scene.Length++
	}
	scene.Trail = trail
	return nil
}
