package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[game]
level = "maze"
frame_rate = "50ms"
max_frames = 300

[leaderboard]
enabled = true
addr = "redis:6379"

[logging]
format = "json"
`))
	assert.NilError(t, err)
	assert.Equal(t, cfg.Game.Level, "maze")
	assert.Equal(t, cfg.Game.FrameRate, 50*time.Millisecond)
	assert.Equal(t, cfg.Game.MaxFrames, 300)
	assert.Equal(t, cfg.Game.ScriptsDir, "scripts", "untouched keys keep defaults")
	assert.Assert(t, cfg.Leaderboard.Enabled)
	assert.Equal(t, cfg.Leaderboard.Addr, "redis:6379")
	assert.Equal(t, cfg.Leaderboard.Key, "snake:leaderboard")
	assert.Equal(t, cfg.Logging.Format, "json")
	assert.Assert(t, !cfg.Database.Enabled)
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse([]byte(`[game`))
	assert.ErrorContains(t, err, "parse config")

	_, err = Parse([]byte("[game]\nframe_rate = \"0s\"\n"))
	assert.ErrorContains(t, err, "frame_rate")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.toml")
	assert.NilError(t, os.WriteFile(path, []byte("[game]\nplayer = \"ada\"\n"), 0o644))

	cfg, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Game.Player, "ada")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "read config")
}

func TestShippedConfig(t *testing.T) {
	cfg, err := Load("../../config/snake.toml")
	assert.NilError(t, err)
	assert.Equal(t, cfg.Game.FrameRate, 16*time.Millisecond)
	assert.Equal(t, cfg.Database.ConnMaxLifetime, 30*time.Minute)
	assert.Equal(t, cfg.Remote.KeysPerSec, 30)
	assert.Assert(t, cfg.Render.ASCII)
}
