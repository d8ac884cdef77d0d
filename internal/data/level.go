package data

import (
	"fmt"
	"os"
	"strings"

	"github.com/gridsnake/engine/internal/component"
	"gopkg.in/yaml.v3"
)

// Cell is a board coordinate in a level file.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Level describes one board: its size, walls and how the snake starts.
type Level struct {
	Name      string `yaml:"name"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Border    bool   `yaml:"border"`    // wall the outer ring
	Walls     []Cell `yaml:"walls"`     // extra wall cells
	Layout    string `yaml:"layout"`    // optional ASCII rows, '#' = wall
	Start     Cell   `yaml:"start"`     // head cell
	Direction string `yaml:"direction"` // up/down/left/right
	Length    int    `yaml:"length"`    // body segments behind the head
	Seed      int64  `yaml:"seed"`      // food placement RNG seed, 0 = time based
}

type levelFile struct {
	Levels []Level `yaml:"levels"`
}

// LevelTable provides lookup of levels by name.
type LevelTable struct {
	levels map[string]*Level
	order  []string
}

// LoadLevelTable loads a level list YAML file.
func LoadLevelTable(path string) (*LevelTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level list %s: %w", path, err)
	}
	return ParseLevelTable(raw)
}

// ParseLevelTable decodes and validates level list YAML.
func ParseLevelTable(raw []byte) (*LevelTable, error) {
	var file levelFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse level list: %w", err)
	}
	t := &LevelTable{
		levels: make(map[string]*Level, len(file.Levels)),
	}
	for i := range file.Levels {
		lv := &file.Levels[i]
		if err := lv.expandLayout(); err != nil {
			return nil, fmt.Errorf("level %q: %w", lv.Name, err)
		}
		if err := lv.Validate(); err != nil {
			return nil, fmt.Errorf("level %q: %w", lv.Name, err)
		}
		if _, dup := t.levels[lv.Name]; dup {
			return nil, fmt.Errorf("level %q defined twice", lv.Name)
		}
		t.levels[lv.Name] = lv
		t.order = append(t.order, lv.Name)
	}
	return t, nil
}

// expandLayout turns Layout rows into wall cells and, if unset, board size.
func (l *Level) expandLayout() error {
	if l.Layout == "" {
		return nil
	}
	rows := strings.Split(strings.TrimRight(l.Layout, "\n"), "\n")
	if l.Height == 0 {
		l.Height = len(rows)
	}
	for y, row := range rows {
		if l.Width == 0 {
			l.Width = len(row)
		}
		if len(row) > l.Width {
			return fmt.Errorf("layout row %d wider than %d", y, l.Width)
		}
		for x, ch := range row {
			if ch == '#' {
				l.Walls = append(l.Walls, Cell{X: x, Y: y})
			}
		}
	}
	return nil
}

// Validate checks that the snake fits on the board.
func (l *Level) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("missing name")
	}
	if l.Width < 4 || l.Height < 4 {
		return fmt.Errorf("board %dx%d too small", l.Width, l.Height)
	}
	dir := l.Dir()
	if dir == component.DirNone {
		return fmt.Errorf("unknown direction %q", l.Direction)
	}
	walls := l.WallSet()
	cells := append([]component.Position{l.StartPosition()}, l.BodyPositions()...)
	for _, c := range cells {
		if !l.Inside(c) {
			return fmt.Errorf("snake cell (%d,%d) outside board", c.X, c.Y)
		}
		if _, ok := walls[c]; ok {
			return fmt.Errorf("snake cell (%d,%d) on a wall", c.X, c.Y)
		}
	}
	return nil
}

func (l *Level) Dir() component.Direction { return component.ParseDirection(l.Direction) }

func (l *Level) StartPosition() component.Position {
	return component.Position{X: l.Start.X, Y: l.Start.Y}
}

// BodyPositions lays the starting body out behind the head.
func (l *Level) BodyPositions() []component.Position {
	back := l.Dir().Opposite()
	out := make([]component.Position, 0, l.Length)
	p := l.StartPosition()
	for i := 0; i < l.Length; i++ {
		p = p.Step(back)
		out = append(out, p)
	}
	return out
}

func (l *Level) Inside(p component.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < l.Width && p.Y < l.Height
}

// WallSet returns every wall cell, border included.
func (l *Level) WallSet() map[component.Position]struct{} {
	set := make(map[component.Position]struct{}, len(l.Walls)+2*(l.Width+l.Height))
	for _, w := range l.Walls {
		set[component.Position{X: w.X, Y: w.Y}] = struct{}{}
	}
	if l.Border {
		for x := 0; x < l.Width; x++ {
			set[component.Position{X: x, Y: 0}] = struct{}{}
			set[component.Position{X: x, Y: l.Height - 1}] = struct{}{}
		}
		for y := 0; y < l.Height; y++ {
			set[component.Position{X: 0, Y: y}] = struct{}{}
			set[component.Position{X: l.Width - 1, Y: y}] = struct{}{}
		}
	}
	return set
}

// Get returns the named level, or nil.
func (t *LevelTable) Get(name string) *Level {
	return t.levels[name]
}

// First returns the first level in file order, or nil if the table is empty.
func (t *LevelTable) First() *Level {
	if len(t.order) == 0 {
		return nil
	}
	return t.levels[t.order[0]]
}

// Names lists levels in file order.
func (t *LevelTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Count returns the total number of levels loaded.
func (t *LevelTable) Count() int {
	return len(t.levels)
}
