package system

import (
	"context"
	"time"

	"github.com/gridsnake/engine/internal/core/event"
	coresys "github.com/gridsnake/engine/internal/core/system"
	"github.com/gridsnake/engine/internal/scripting"
	"github.com/gridsnake/engine/internal/world"
	"go.uber.org/zap"
)

// recordTimeout bounds how long a finished game may block the frame while
// its score is written out.
const recordTimeout = 2 * time.Second

// ScoreSystem keeps the score and records finished games.
// Stage 3 (UI logic).
type ScoreSystem struct {
	log *zap.Logger
}

func NewScoreSystem(log *zap.Logger) *ScoreSystem {
	return &ScoreSystem{log: log}
}

func (s *ScoreSystem) Name() string               { return "score" }
func (s *ScoreSystem) Stage() coresys.Stage       { return coresys.StageUILogic }
func (s *ScoreSystem) Receiver() event.ReceiverID { return event.RecvScore }

func (s *ScoreSystem) Update(a *App, scene *world.State, w *World) error {
	return w.Bus.Drain(event.RecvScore, func(m event.Message) error {
		switch m.Kind {
		case event.Init:
			scene.Score = 0
		case event.FoodEaten:
			scene.Score += s.foodScore(a, scene.Length)
		case event.KillSnake:
			s.record(a, m.Score)
		default:
			return nil
		}
		return w.Bus.SendTo(event.Message{Kind: event.ScoreChanged, Score: scene.Score}, event.RecvRender)
	})
}

func (s *ScoreSystem) foodScore(a *App, length int) int {
	if a == nil || a.Global == nil || a.Global.Rules == nil {
		return scripting.DefaultFoodScore
	}
	return a.Global.Rules.FoodScore(length)
}

// record updates the high score and writes the result to every sink.
// Sink failures are logged; losing a score entry is not worth a frame.
func (s *ScoreSystem) record(a *App, score int) {
	if a == nil || a.Global == nil {
		return
	}
	g := a.Global
	if score > g.HighScore {
		g.HighScore = score
		s.log.Info("new high score", zap.Int("score", score))
	}
	if len(g.Sinks) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	for _, sink := range g.Sinks {
		if err := sink.Record(ctx, g.Player, score); err != nil {
			s.log.Warn("record score failed",
				zap.String("player", g.Player),
				zap.Int("score", score),
				zap.Error(err),
			)
		}
	}
}
