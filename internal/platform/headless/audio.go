package headless

import (
	"io"
	"sync/atomic"

	"github.com/gridsnake/engine/internal/app"
	"go.uber.org/zap"
)

// Audio has no sound device. It logs each cue and, when given a writer,
// rings the terminal bell on death.
type Audio struct {
	bell  io.Writer
	log   *zap.Logger
	plays atomic.Int64
}

func NewAudio(bell io.Writer, log *zap.Logger) *Audio {
	if log == nil {
		log = zap.NewNop()
	}
	return &Audio{bell: bell, log: log}
}

func (a *Audio) Play(cue app.Cue) error {
	a.plays.Add(1)
	a.log.Debug("cue", zap.Stringer("cue", cue))
	if cue == app.CueDie && a.bell != nil {
		if _, err := a.bell.Write([]byte{'\a'}); err != nil {
			return err
		}
	}
	return nil
}

// Plays returns the number of cues played.
func (a *Audio) Plays() int64 { return a.plays.Load() }
