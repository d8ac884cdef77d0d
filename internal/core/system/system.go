package system

// Stage defines execution ordering within a single tick.
type Stage int

const (
	StageInput       Stage = iota // 0: clock + input translation
	StageGameLogic                // 1: board, body, head, food
	StageAudio                    // 2: sound cues
	StageUILogic                  // 3: score and HUD state
	StageUIRender                 // 4: HUD drawing
	StageRenderBegin              // 5: frame setup
	StageRenderDraw               // 6: world drawing
	StageRenderEnd                // 7: present
)

var stageNames = [...]string{
	StageInput:       "input",
	StageGameLogic:   "game-logic",
	StageAudio:       "audio",
	StageUILogic:     "ui-logic",
	StageUIRender:    "ui-render",
	StageRenderBegin: "render-begin",
	StageRenderDraw:  "render-draw",
	StageRenderEnd:   "render-end",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// DefaultStage is used for systems that do not declare one.
const DefaultStage = StageGameLogic

// Staged is implemented by systems that declare their stage.
type Staged interface {
	Stage() Stage
}

// StageOf returns the declared stage of s, or DefaultStage.
func StageOf(s any) Stage {
	if st, ok := s.(Staged); ok {
		return st.Stage()
	}
	return DefaultStage
}
