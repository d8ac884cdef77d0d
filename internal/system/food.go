package system

import (
	"github.com/gridsnake/engine/internal/component"
	"github.com/gridsnake/engine/internal/core/ecs"
	"github.com/gridsnake/engine/internal/core/event"
	coresys "github.com/gridsnake/engine/internal/core/system"
	"github.com/gridsnake/engine/internal/world"
	"go.uber.org/zap"
)

// FoodSystem keeps exactly one food on the board.
type FoodSystem struct {
	log *zap.Logger
}

func NewFoodSystem(log *zap.Logger) *FoodSystem {
	return &FoodSystem{log: log}
}

func (s *FoodSystem) Name() string               { return "food" }
func (s *FoodSystem) Stage() coresys.Stage       { return coresys.StageGameLogic }
func (s *FoodSystem) Receiver() event.ReceiverID { return event.RecvFood }

func (s *FoodSystem) Update(_ *App, scene *world.State, w *World) error {
	return w.Bus.Drain(event.RecvFood, func(m event.Message) error {
		switch m.Kind {
		case event.Init:
			// The board's spawns land after this tick, so occupancy comes
			// from the level rather than from components.
			taken := scene.Level.WallSet()
			taken[scene.Level.StartPosition()] = struct{}{}
			for _, p := range scene.Level.BodyPositions() {
				taken[p] = struct{}{}
			}
			s.place(scene, w, taken)
		case event.FoodEaten:
			return s.eaten(scene, w)
		}
		return nil
	})
}

func (s *FoodSystem) eaten(scene *world.State, w *World) error {
	heads, food, pos, err := ecs.Lists3[component.Head, component.Food, component.Position](w.Components)
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
	ecs.Each2(food, pos, func(fid ecs.EntityID, _ *component.Food, p *component.Position) {
		if *p == *hp {
			w.Commands.Kill(fid)
		}
	})

	taken, err := occupied(w)
	if err != nil {
		return err
	}
	s.place(scene, w, taken)
	return nil
}

// place spawns food on a random free cell. A full board gets no food.
func (s *FoodSystem) place(scene *world.State, w *World, taken map[component.Position]struct{}) {
	lv := scene.Level
	free := make([]component.Position, 0, max(0, lv.Width*lv.Height-len(taken)))
	for y := 0; y < lv.Height; y++ {
		for x := 0; x < lv.Width; x++ {
			p := component.Position{X: x, Y: y}
			if _, ok := taken[p]; !ok {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		s.log.Info("board full, no cell left for food")
		return
	}
	cell := free[scene.Rand.Intn(len(free))]
	id := w.Entities.Create()
	ecs.Spawn(w.Commands, id, cell)
	ecs.Spawn(w.Commands, id, component.Food{})
	s.log.Debug("food placed", zap.Int("x", cell.X), zap.Int("y", cell.Y))
}
