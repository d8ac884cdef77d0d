package app

import "go.uber.org/zap"

// Key identifies a logical input key. Platforms map their own key codes to it.
type Key uint8

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyRestart
	KeyQuit
)

// InputEvent is one key press delivered by the window.
type InputEvent struct {
	Key Key
}

// Cue names a sound effect.
type Cue uint8

const (
	CueStart Cue = iota + 1
	CueEat
	CueDie
)

func (c Cue) String() string {
	switch c {
	case CueStart:
		return "start"
	case CueEat:
		return "eat"
	case CueDie:
		return "die"
	}
	return "unknown"
}

// Window is the OS window/input binding.
type Window interface {
	PollEvents() []InputEvent
	Close() error
}

// Renderer draws one frame on a cell grid.
type Renderer interface {
	Begin()
	DrawCell(x, y int, glyph rune)
	DrawText(x, y int, s string)
	End() error
}

// Audio plays sound cues.
type Audio interface {
	Play(cue Cue) error
}

// Application is what every system can reach besides its world and scene:
// the platform collaborators, this frame's input and user-defined global data.
type Application[G any] struct {
	Global   G
	Window   Window
	Renderer Renderer
	Audio    Audio
	Log      *zap.Logger

	// Events holds the input polled for the current frame.
	Events []InputEvent

	quit bool
}

func New[G any](global G, w Window, r Renderer, a Audio, log *zap.Logger) *Application[G] {
	return &Application[G]{
		Global:   global,
		Window:   w,
		Renderer: r,
		Audio:    a,
		Log:      log,
	}
}

// PollEvents replaces Events with whatever the window has queued.
func (a *Application[G]) PollEvents() {
	a.Events = a.Window.PollEvents()
}

func (a *Application[G]) Quit()         { a.quit = true }
func (a *Application[G]) Running() bool { return !a.quit }
