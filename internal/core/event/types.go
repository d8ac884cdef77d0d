package event

import "github.com/gridsnake/engine/internal/component"

// Kind tags the variant carried by a Message.
type Kind uint8

const (
	Init Kind = iota + 1
	GameTick
	FoodEaten
	KillSnake
	Input
	Restart
	ScoreChanged
)

var kindNames = [...]string{
	Init:         "Init",
	GameTick:     "GameTick",
	FoodEaten:    "FoodEaten",
	KillSnake:    "KillSnake",
	Input:        "Input",
	Restart:      "Restart",
	ScoreChanged: "ScoreChanged",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// Message is the snake game's notification payload. Only the fields that
// belong to Kind are meaningful.
type Message struct {
	Kind  Kind
	Dir   component.Direction // Input
	Score int                 // ScoreChanged, KillSnake
}

// Snake system receivers.
const (
	RecvClock ReceiverID = iota + 1
	RecvBoard
	RecvBody
	RecvHead
	RecvFood
	RecvScore
	RecvAudio
	RecvRender
)
