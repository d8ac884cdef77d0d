package system

import (
	"github.com/gridsnake/engine/internal/app"
	"github.com/gridsnake/engine/internal/core/event"
	coresys "github.com/gridsnake/engine/internal/core/system"
	"github.com/gridsnake/engine/internal/world"
	"go.uber.org/zap"
)

// AudioSystem plays a cue for game start, food and death.
type AudioSystem struct {
	log *zap.Logger
}

func NewAudioSystem(log *zap.Logger) *AudioSystem {
	return &AudioSystem{log: log}
}

func (s *AudioSystem) Name() string               { return "audio" }
func (s *AudioSystem) Stage() coresys.Stage       { return coresys.StageAudio }
func (s *AudioSystem) Receiver() event.ReceiverID { return event.RecvAudio }

func (s *AudioSystem) Update(a *App, _ *world.State, w *World) error {
	return w.Bus.Drain(event.RecvAudio, func(m event.Message) error {
		var cue app.Cue
		switch m.Kind {
		case event.Init:
			cue = app.CueStart
		case event.FoodEaten:
			cue = app.CueEat
		case event.KillSnake:
			cue = app.CueDie
		default:
			return nil
		}
		if a == nil || a.Audio == nil {
			return nil
		}
		if err := a.Audio.Play(cue); err != nil {
			// a missing sound never stops the game
			s.log.Warn("play cue failed", zap.Stringer("cue", cue), zap.Error(err))
		}
		return nil
	})
}
