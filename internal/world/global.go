package world

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Rules supplies the tunable game numbers. The Lua engine implements it.
type Rules interface {
	FoodScore(length int) int
	TickFrames(score int) int
	Growth(length int) int
}

// ScoreSink records a finished game somewhere durable.
type ScoreSink interface {
	Record(ctx context.Context, player string, score int) error
}

// Global is the application-wide data every system can reach.
type Global struct {
	Player    string
	Rules     Rules
	Sinks     []ScoreSink
	HighScore int

	// Printer formats numbers for the player's locale.
	Printer *message.Printer
}

// NewGlobal builds global data; an unparsable locale falls back to English.
func NewGlobal(player string, rules Rules, locale string, sinks ...ScoreSink) *Global {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Global{
		Player:  player,
		Rules:   rules,
		Sinks:   sinks,
		Printer: message.NewPrinter(tag),
	}
}

// FormatScore renders a score with locale digit grouping.
func (g *Global) FormatScore(score int) string {
	return g.Printer.Sprintf("%d", score)
}
