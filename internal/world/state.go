package world

import (
	"math/rand"
	"time"

	"github.com/gridsnake/engine/internal/component"
	"github.com/gridsnake/engine/internal/core/ecs"
	"github.com/gridsnake/engine/internal/data"
)

// Trail records the body's move in the current tick. HeadSystem reads it
// to keep a growing tail solid and to put the body back when the head is
// blocked.
type Trail struct {
	Moved    bool
	Segments []ecs.EntityID     // body segments, front to back
	Vacated  component.Position // cell the last segment left
	Tail     ecs.EntityID       // segment queued onto Vacated, 0 when not growing
}

// State is the per-scene data threaded through every snake system.
// Accessed only from the game loop goroutine.
type State struct {
	Level *data.Level

	Score    int
	Length   int // head plus body segments
	GameOver bool
	Games    int // games started in this scene

	Trail Trail

	// Rand places food. Seeded from the level so replays are deterministic.
	Rand *rand.Rand
}

// NewState prepares scene state for a level.
func NewState(level *data.Level) *State {
	seed := level.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &State{
		Level: level,
		Rand:  rand.New(rand.NewSource(seed)),
	}
}

// Reset clears per-game fields before a new game starts.
func (s *State) Reset() {
	s.Score = 0
	s.Length = 0
	s.GameOver = false
	s.Trail = Trail{}
	s.Games++
}
