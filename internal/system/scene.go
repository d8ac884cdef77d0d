package system

import (
	"fmt"

	"github.com/gridsnake/engine/internal/component"
	"github.com/gridsnake/engine/internal/core/ecs"
	"github.com/gridsnake/engine/internal/core/event"
	"github.com/gridsnake/engine/internal/data"
	"github.com/gridsnake/engine/internal/world"
	"go.uber.org/zap"
)

// RegisterComponents creates the snake component lists on w.
func RegisterComponents(w *World) error {
	for _, reg := range []func(*ecs.ComponentManager) error{
		ecs.Register[component.Position],
		ecs.Register[component.Head],
		ecs.Register[component.Body],
		ecs.Register[component.Food],
		ecs.Register[component.Wall],
	} {
		if err := reg(w.Components); err != nil {
			return err
		}
	}
	return nil
}

// NewScene builds a fresh world for level with every snake system
// registered, and queues the Init that starts the first game.
func NewScene(level *data.Level, log *zap.Logger) (*World, *world.State, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w := ecs.NewWorld[*world.Global, world.State, event.Message](log.Named("ecs"))
	if err := RegisterComponents(w); err != nil {
		return nil, nil, fmt.Errorf("register components: %w", err)
	}

	// Registration order matters inside a stage: steering must reach the head
	// before the clock's GameTick, the body follows the head's old cell so it
	// moves first, and food reacts to where the head landed.
	systems := []System{
		NewInputSystem(),
		NewClockSystem(),
		NewBoardSystem(log),
		NewBodySystem(),
		NewHeadSystem(log),
		NewFoodSystem(log),
		NewAudioSystem(log),
		NewScoreSystem(log),
		FrameBeginSystem{},
		NewRenderSystem(),
		FrameEndSystem{},
	}
	for _, s := range systems {
		if err := w.AddSystem(s); err != nil {
			return nil, nil, fmt.Errorf("add system: %w", err)
		}
	}

	if err := w.Bus.SendTo(msg(event.Init), event.RecvBoard); err != nil {
		return nil, nil, fmt.Errorf("queue init: %w", err)
	}
	return w, world.NewState(level), nil
}
