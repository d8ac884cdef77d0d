package data

import (
	"testing"

	"github.com/gridsnake/engine/internal/component"
	"gotest.tools/v3/assert"
)

const levelsYAML = `
levels:
  - name: open
    width: 12
    height: 8
    border: true
    start: {x: 5, y: 4}
    direction: right
    length: 2
    seed: 7
  - name: maze
    layout: |
      ######
      #....#
      #.##.#
      #....#
      ######
    start: {x: 2, y: 1}
    direction: right
    length: 1
`

func TestParseLevelTable(t *testing.T) {
	table, err := ParseLevelTable([]byte(levelsYAML))
	assert.NilError(t, err)
	assert.Equal(t, table.Count(), 2)
	assert.DeepEqual(t, table.Names(), []string{"open", "maze"})
	assert.Equal(t, table.First().Name, "open")

	open := table.Get("open")
	assert.Assert(t, open != nil)
	assert.Equal(t, open.Dir(), component.DirRight)
	assert.DeepEqual(t, open.BodyPositions(), []component.Position{{X: 4, Y: 4}, {X: 3, Y: 4}})
	assert.Equal(t, len(open.WallSet()), 2*12+2*8-4)
	assert.Equal(t, open.Seed, int64(7))
}

func TestLevelLayout(t *testing.T) {
	table, err := ParseLevelTable([]byte(levelsYAML))
	assert.NilError(t, err)
	maze := table.Get("maze")
	assert.Equal(t, maze.Width, 6)
	assert.Equal(t, maze.Height, 5)

	walls := maze.WallSet()
	_, inner := walls[component.Position{X: 2, Y: 2}]
	assert.Assert(t, inner)
	_, floor := walls[component.Position{X: 1, Y: 2}]
	assert.Assert(t, !floor)
	assert.DeepEqual(t, maze.BodyPositions(), []component.Position{{X: 1, Y: 1}})
}

func TestParseLevelTableRejectsBadLevels(t *testing.T) {
	cases := map[string]string{
		"tiny board": "levels: [{name: a, width: 2, height: 2, start: {x: 1, y: 1}, direction: up}]",
		"bad dir":    "levels: [{name: a, width: 9, height: 9, start: {x: 4, y: 4}, direction: sideways}]",
		"off board":  "levels: [{name: a, width: 9, height: 9, start: {x: 0, y: 4}, direction: right, length: 2}]",
		"on a wall":  "levels: [{name: a, width: 9, height: 9, border: true, start: {x: 1, y: 4}, direction: right, length: 1}]",
		"duplicate":  "levels: [{name: a, width: 9, height: 9, start: {x: 4, y: 4}, direction: up}, {name: a, width: 9, height: 9, start: {x: 4, y: 4}, direction: up}]",
		"no name":    "levels: [{width: 9, height: 9, start: {x: 4, y: 4}, direction: up}]",
		"not yaml":   "levels: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLevelTable([]byte(raw))
			assert.Assert(t, err != nil)
		})
	}
}

func TestShippedLevels(t *testing.T) {
	table, err := LoadLevelTable("../../data/yaml/levels.yaml")
	assert.NilError(t, err)
	assert.DeepEqual(t, table.Names(), []string{"classic", "pillars", "tunnel"})

	classic := table.First()
	assert.Equal(t, classic.Width, 20)
	assert.Equal(t, classic.Height, 12)
	assert.Assert(t, classic.Border)

	tunnel := table.Get("tunnel")
	assert.Equal(t, tunnel.Dir(), component.DirUp)
	assert.Equal(t, len(tunnel.BodyPositions()), 3)
}

func TestLoadLevelTableMissingFile(t *testing.T) {
	_, err := LoadLevelTable("does/not/exist.yaml")
	assert.ErrorContains(t, err, "read level list")
}
