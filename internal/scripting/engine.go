package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Fallbacks used when a rule function is missing or fails.
const (
	DefaultFoodScore  = 10
	DefaultTickFrames = 8
	DefaultGrowth     = 1
)

// Engine wraps a single gopher-lua VM holding the game rules.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	// Load core scripts first, then rule overrides
	for _, sub := range []string{"core", "rules"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// NewEngineFromSource creates an engine from an inline script.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load inline script: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// FoodScore returns the points awarded for eating food with a snake of the
// given length (head included).
func (e *Engine) FoodScore(length int) int {
	v := e.callIntFunc("food_score", DefaultFoodScore, length)
	if v < 0 {
		return 0
	}
	return v
}

// TickFrames returns how many frames pass between two snake moves at the
// given score. Never less than 1.
func (e *Engine) TickFrames(score int) int {
	v := e.callIntFunc("tick_frames", DefaultTickFrames, score)
	if v < 1 {
		return 1
	}
	return v
}

// Growth returns how many segments one food adds at the given length.
func (e *Engine) Growth(length int) int {
	v := e.callIntFunc("growth", DefaultGrowth, length)
	if v < 0 {
		return 0
	}
	return v
}

// RulesName returns the RULES_NAME global, or "default".
func (e *Engine) RulesName() string {
	v := e.vm.GetGlobal("RULES_NAME")
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return "default"
}

// callIntFunc calls a Lua function with int args and returns an int result,
// or def if the function is missing or fails.
func (e *Engine) callIntFunc(name string, def int, args ...int) int {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return def
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return def
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua function returned non-number",
			zap.String("func", name),
			zap.String("type", result.Type().String()),
		)
		return def
	}
	return int(n)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
