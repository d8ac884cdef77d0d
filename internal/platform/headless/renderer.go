package headless

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

const clearScreen = "\033[H\033[2J"

// Renderer draws frames as text. Each End writes the whole grid, one line
// per row, to the output.
type Renderer struct {
	out    io.Writer
	width  int
	height int
	ansi   bool

	grid [][]rune
	text map[int]string
	buf  bytes.Buffer

	frames int
}

// NewRenderer creates a renderer for a width x height board. When ansi is
// set every frame starts with an ANSI clear-screen sequence.
func NewRenderer(out io.Writer, width, height int, ansi bool) *Renderer {
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = make([]rune, width)
	}
	return &Renderer{
		out:    out,
		width:  width,
		height: height,
		ansi:   ansi,
		grid:   grid,
		text:   make(map[int]string),
	}
}

func (r *Renderer) Begin() {
	for y := range r.grid {
		for x := range r.grid[y] {
			r.grid[y][x] = ' '
		}
	}
	clear(r.text)
}

// DrawCell ignores cells outside the board.
func (r *Renderer) DrawCell(x, y int, glyph rune) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return
	}
	r.grid[y][x] = glyph
}

// DrawText places a line of text at row y. Text is not clipped; x indents it.
func (r *Renderer) DrawText(x, y int, s string) {
	r.text[y] = strings.Repeat(" ", max(0, x)) + s
}

func (r *Renderer) End() error {
	r.buf.Reset()
	if r.ansi {
		r.buf.WriteString(clearScreen)
	}
	last := r.height - 1
	for y := range r.text {
		last = max(last, y)
	}
	for y := 0; y <= last; y++ {
		if s, ok := r.text[y]; ok {
			r.buf.WriteString(s)
		} else if y < r.height {
			r.buf.WriteString(strings.TrimRight(string(r.grid[y]), " "))
		}
		r.buf.WriteByte('\n')
	}
	if _, err := r.out.Write(r.buf.Bytes()); err != nil {
		return fmt.Errorf("write frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written.
func (r *Renderer) Frames() int { return r.frames }
