package system

import (
	"github.com/gridsnake/engine/internal/component"
	"github.com/gridsnake/engine/internal/core/ecs"
	"github.com/gridsnake/engine/internal/core/event"
	coresys "github.com/gridsnake/engine/internal/core/system"
	"github.com/gridsnake/engine/internal/world"
	"go.uber.org/zap"
)

// BoardSystem owns the game's lifecycle: it lays out walls and the snake on
// Init, ends the game on KillSnake and starts a new one on Restart.
type BoardSystem struct {
	log *zap.Logger
}

func NewBoardSystem(log *zap.Logger) *BoardSystem {
	return &BoardSystem{log: log}
}

func (s *BoardSystem) Name() string               { return "board" }
func (s *BoardSystem) Stage() coresys.Stage       { return coresys.StageGameLogic }
func (s *BoardSystem) Receiver() event.ReceiverID { return event.RecvBoard }

func (s *BoardSystem) Update(_ *App, scene *world.State, w *World) error {
	return w.Bus.Drain(event.RecvBoard, func(m event.Message) error {
		switch m.Kind {
		case event.Init:
			return s.setup(scene, w)
		case event.Restart:
			if !scene.GameOver {
				return nil
			}
			return s.setup(scene, w)
		case event.KillSnake:
			scene.GameOver = true
			s.log.Info("game over", zap.Int("score", m.Score), zap.Int("length", scene.Length))
		}
		return nil
	})
}

// setup clears whatever the last game left and queues the new board.
func (s *BoardSystem) setup(scene *world.State, w *World) error {
	if err := s.clear(w); err != nil {
		return err
	}
	lv := scene.Level

	for cell := range lv.WallSet() {
		id := w.Entities.Create()
		ecs.Spawn(w.Commands, id, cell)
		ecs.Spawn(w.Commands, id, component.Wall{})
	}

	head := w.Entities.Create()
	ecs.Spawn(w.Commands, head, lv.StartPosition())
	ecs.Spawn(w.Commands, head, component.Head{Dir: lv.Dir(), Next: lv.Dir()})

	body := lv.BodyPositions()
	for i, p := range body {
		id := w.Entities.Create()
		ecs.Spawn(w.Commands, id, p)
		ecs.Spawn(w.Commands, id, component.Body{Order: i})
	}

	scene.Reset()
	scene.Length = 1 + len(body)
	s.log.Info("game started",
		zap.String("level", lv.Name),
		zap.Int("game", scene.Games),
		zap.Int("width", lv.Width),
		zap.Int("height", lv.Height),
	)
	return w.Bus.SendTo(msg(event.Init),
		event.RecvClock, event.RecvBody, event.RecvFood, event.RecvScore, event.RecvAudio)
}

// clear queues kills for every entity that carries a position.
func (s *BoardSystem) clear(w *World) error {
	pos, err := ecs.List[component.Position](w.Components)
	if err != nil {
		return err
	}
	pos.Each(func(id ecs.EntityID, _ *component.Position) {
		w.Commands.Kill(id)
	})
	return nil
}
