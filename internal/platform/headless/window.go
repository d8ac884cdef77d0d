package headless

import (
	"bufio"
	"io"
	"sync"
	"sync/atomic"

	"github.com/gridsnake/engine/internal/app"
	"go.uber.org/zap"
)

// keymap maps typed characters to logical keys. Arrow keys arrive as
// escape sequences on a terminal, so letters are used instead.
var keymap = map[rune]app.Key{
	'w': app.KeyUp,
	'k': app.KeyUp,
	's': app.KeyDown,
	'j': app.KeyDown,
	'a': app.KeyLeft,
	'h': app.KeyLeft,
	'd': app.KeyRight,
	'l': app.KeyRight,
	'r': app.KeyRestart,
	'q': app.KeyQuit,
}

// KeyFor returns the key bound to r, or KeyNone.
func KeyFor(r rune) app.Key {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	return keymap[r]
}

// Window is a terminal-less app.Window. Input comes from an io.Reader read
// on its own goroutine, or from Feed; the game loop drains it with
// PollEvents.
type Window struct {
	events chan app.InputEvent

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	dropped   atomic.Int64

	log *zap.Logger
}

// NewWindow creates a window with room for size pending key presses.
func NewWindow(size int, log *zap.Logger) *Window {
	if size <= 0 {
		size = 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Window{
		events:  make(chan app.InputEvent, size),
		closeCh: make(chan struct{}),
		log:     log,
	}
}

// Listen starts reading key characters from r in a new goroutine.
// Unknown characters and newlines are ignored. The goroutine ends at EOF,
// on a read error or when the window closes.
func (w *Window) Listen(r io.Reader) {
	go w.readLoop(bufio.NewReader(r))
}

func (w *Window) readLoop(r *bufio.Reader) {
	for {
		ch, _, err := r.ReadRune()
		if err != nil {
			if err != io.EOF {
				w.log.Warn("input read failed", zap.Error(err))
			}
			return
		}
		select {
		case <-w.closeCh:
			return
		default:
		}
		if k := KeyFor(ch); k != app.KeyNone {
			w.Feed(k)
		}
	}
}

// Feed queues key presses as if they were typed. Presses beyond the
// buffer are dropped.
func (w *Window) Feed(keys ...app.Key) {
	for _, k := range keys {
		if w.closed.Load() {
			return
		}
		select {
		case w.events <- app.InputEvent{Key: k}:
		default:
			w.dropped.Add(1)
			w.log.Debug("input buffer full, key dropped")
		}
	}
}

// PollEvents returns everything queued since the last call without blocking.
func (w *Window) PollEvents() []app.InputEvent {
	var out []app.InputEvent
	for {
		select {
		case ev := <-w.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// Dropped returns how many presses were lost to a full buffer.
func (w *Window) Dropped() int64 { return w.dropped.Load() }

// Close stops input. Safe to call more than once.
func (w *Window) Close() error {
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		close(w.closeCh)
	})
	return nil
}
