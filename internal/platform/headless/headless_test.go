package headless

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gridsnake/engine/internal/app"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/poll"
)

func TestKeyFor(t *testing.T) {
	cases := []struct {
		in   rune
		want app.Key
	}{
		{'w', app.KeyUp},
		{'S', app.KeyDown},
		{'h', app.KeyLeft},
		{'d', app.KeyRight},
		{'r', app.KeyRestart},
		{'q', app.KeyQuit},
		{'x', app.KeyNone},
		{'\n', app.KeyNone},
	}
	for _, tc := range cases {
		assert.Equal(t, KeyFor(tc.in), tc.want, "rune %q", tc.in)
	}
}

func TestWindowFeedAndPoll(t *testing.T) {
	w := NewWindow(2, nil)
	assert.Assert(t, w.PollEvents() == nil)

	w.Feed(app.KeyUp, app.KeyLeft, app.KeyQuit)
	got := w.PollEvents()
	assert.DeepEqual(t, got, []app.InputEvent{{Key: app.KeyUp}, {Key: app.KeyLeft}})
	assert.Equal(t, w.Dropped(), int64(1))
	assert.Equal(t, len(w.PollEvents()), 0)
}

func TestWindowListen(t *testing.T) {
	w := NewWindow(8, nil)
	w.Listen(strings.NewReader("wx\nd"))

	var got []app.InputEvent
	poll.WaitOn(t, func(poll.LogT) poll.Result {
		got = append(got, w.PollEvents()...)
		if len(got) < 2 {
			return poll.Continue("have %d events", len(got))
		}
		return poll.Success()
	}, poll.WithDelay(time.Millisecond), poll.WithTimeout(time.Second))
	assert.DeepEqual(t, got, []app.InputEvent{{Key: app.KeyUp}, {Key: app.KeyRight}})
}

func TestWindowClosedIgnoresFeed(t *testing.T) {
	w := NewWindow(8, nil)
	assert.NilError(t, w.Close())
	assert.NilError(t, w.Close())
	w.Feed(app.KeyUp)
	assert.Equal(t, len(w.PollEvents()), 0)
}

func TestRendererFrame(t *testing.T) {
	var out strings.Builder
	r := NewRenderer(&out, 4, 2, false)
	r.Begin()
	r.DrawCell(0, 0, '#')
	r.DrawCell(3, 1, '@')
	r.DrawCell(9, 9, '!')
	r.DrawText(0, 2, "score 3")
	assert.NilError(t, r.End())
	assert.Equal(t, out.String(), "#\n   @\nscore 3\n")

	out.Reset()
	r.Begin()
	assert.NilError(t, r.End())
	assert.Equal(t, out.String(), "\n\n")
	assert.Equal(t, r.Frames(), 2)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRendererWriteError(t *testing.T) {
	r := NewRenderer(failWriter{}, 1, 1, true)
	r.Begin()
	assert.ErrorContains(t, r.End(), "closed")
	assert.Equal(t, r.Frames(), 0)
}

func TestAudioBell(t *testing.T) {
	var bell strings.Builder
	a := NewAudio(&bell, nil)
	assert.NilError(t, a.Play(app.CueStart))
	assert.NilError(t, a.Play(app.CueDie))
	assert.Equal(t, bell.String(), "\a")
	assert.Equal(t, a.Plays(), int64(2))
}
