package system

import (
	"github.com/gridsnake/engine/internal/app"
	"github.com/gridsnake/engine/internal/component"
	"github.com/gridsnake/engine/internal/core/ecs"
	"github.com/gridsnake/engine/internal/core/event"
	"github.com/gridsnake/engine/internal/world"
)

// Snake instantiations of the generic runtime.
type (
	World  = ecs.World[*world.Global, world.State, event.Message]
	App    = app.Application[*world.Global]
	System = ecs.System[*world.Global, world.State, event.Message]
)

func msg(k event.Kind) event.Message { return event.Message{Kind: k} }

// occupied collects every cell that currently holds a position component.
func occupied(w *World) (map[component.Position]struct{}, error) {
	pos, err := ecs.List[component.Position](w.Components)
	if err != nil {
		return nil, err
	}
	set := make(map[component.Position]struct{}, pos.Len())
	pos.Each(func(_ ecs.EntityID, p *component.Position) {
		set[*p] = struct{}{}
	})
	return set, nil
}
