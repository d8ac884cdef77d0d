package system

import (
	"github.com/gridsnake/engine/internal/core/event"
	coresys "github.com/gridsnake/engine/internal/core/system"
	"github.com/gridsnake/engine/internal/scripting"
	"github.com/gridsnake/engine/internal/world"
)

// ClockSystem turns frames into GameTicks. The interval shrinks as the score
// grows, per the rules.
type ClockSystem struct {
	frames  int
	running bool
}

func NewClockSystem() *ClockSystem { return &ClockSystem{} }

func (s *ClockSystem) Name() string               { return "clock" }
func (s *ClockSystem) Stage() coresys.Stage       { return coresys.StageInput }
func (s *ClockSystem) Receiver() event.ReceiverID { return event.RecvClock }

func (s *ClockSystem) Update(a *App, scene *world.State, w *World) error {
	err := w.Bus.Drain(event.RecvClock, func(m event.Message) error {
		switch m.Kind {
		case event.Init:
			s.frames = 0
			s.running = true
		case event.KillSnake:
			s.running = false
		}
		return nil
	})
	if err != nil || !s.running {
		return err
	}

	interval := scripting.DefaultTickFrames
	if a != nil && a.Global != nil && a.Global.Rules != nil {
		interval = a.Global.Rules.TickFrames(scene.Score)
	}
	s.frames++
	if s.frames < interval {
		return nil
	}
	s.frames = 0
	return w.Bus.SendTo(msg(event.GameTick), event.RecvBody, event.RecvHead)
}
