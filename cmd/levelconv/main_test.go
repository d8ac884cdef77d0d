package main

import (
	"testing"

	"github.com/gridsnake/engine/internal/data"
	"gopkg.in/yaml.v3"
	"gotest.tools/v3/assert"
)

const boxMap = `; direction: up
; length: 1
; seed: 9
; a plain note
######
#.@..#
#....#
#....
######
`

func TestConvert(t *testing.T) {
	e, err := convert("box", []byte(boxMap))
	assert.NilError(t, err)
	assert.Equal(t, e.Direction, "up")
	assert.Equal(t, e.Length, 1)
	assert.Equal(t, e.Seed, int64(9))
	assert.Equal(t, e.Start, data.Cell{X: 2, Y: 1})
	assert.Equal(t, e.Layout, "######\n#....#\n#....#\n#.....\n######\n")

	// the result must load in the game
	raw, err := yaml.Marshal(&LevelFile{Levels: []LevelEntry{e}})
	assert.NilError(t, err)
	table, err := data.ParseLevelTable(raw)
	assert.NilError(t, err)
	lv := table.Get("box")
	assert.Assert(t, lv != nil)
	assert.Equal(t, lv.Width, 6)
	assert.Equal(t, lv.Height, 5)
}

func TestConvertErrors(t *testing.T) {
	cases := map[string]string{
		"no start":   "####\n#..#\n####\n",
		"two starts": "#@@#\n",
		"two rows":   "#@#\n#@#\n",
		"empty":      "; direction: up\n",
		"bad length": "; length: x\n#@#\n",
	}
	for name, src := range cases {
		_, err := convert("x", []byte(src))
		assert.Assert(t, err != nil, name)
	}
}
