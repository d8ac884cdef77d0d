package system

import (
	"github.com/gridsnake/engine/internal/app"
	"github.com/gridsnake/engine/internal/component"
	"github.com/gridsnake/engine/internal/core/event"
	coresys "github.com/gridsnake/engine/internal/core/system"
	"github.com/gridsnake/engine/internal/world"
)

// InputSystem translates this frame's key presses into messages.
// Stage 0 (Input).
type InputSystem struct{}

func NewInputSystem() *InputSystem { return &InputSystem{} }

func (s *InputSystem) Name() string         { return "input" }
func (s *InputSystem) Stage() coresys.Stage { return coresys.StageInput }

func (s *InputSystem) Update(a *App, _ *world.State, w *World) error {
	if a == nil {
		return nil
	}
	for _, ev := range a.Events {
		var err error
		switch ev.Key {
		case app.KeyUp:
			err = s.steer(w, component.DirUp)
		case app.KeyDown:
			err = s.steer(w, component.DirDown)
		case app.KeyLeft:
			err = s.steer(w, component.DirLeft)
		case app.KeyRight:
			err = s.steer(w, component.DirRight)
		case app.KeyRestart:
			err = w.Bus.SendTo(msg(event.Restart), event.RecvBoard)
		case app.KeyQuit:
			a.Quit()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *InputSystem) steer(w *World, dir component.Direction) error {
	return w.Bus.SendTo(event.Message{Kind: event.Input, Dir: dir}, event.RecvHead)
}
