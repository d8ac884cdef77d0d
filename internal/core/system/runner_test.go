package system

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

type staged struct {
	stage Stage
}

func (s staged) Stage() Stage { return s.stage }

func TestRunnerOrdersByStageThenRegistration(t *testing.T) {
	r := NewRunner[string]()
	r.Register("render", StageRenderDraw)
	r.Register("head", StageGameLogic)
	r.Register("clock", StageInput)
	r.Register("food", StageGameLogic)
	r.Register("present", StageRenderEnd)

	var order []string
	assert.NilError(t, r.Each(func(s string, _ Stage) error {
		order = append(order, s)
		return nil
	}))
	assert.DeepEqual(t, order, []string{"clock", "head", "food", "render", "present"})
	assert.Equal(t, r.Len(), 5)
}

func TestRunnerStopsOnError(t *testing.T) {
	r := NewRunner[int]()
	for i := 0; i < 4; i++ {
		r.Register(i, StageGameLogic)
	}
	boom := errors.New("boom")
	var ran []int
	err := r.Each(func(i int, _ Stage) error {
		ran = append(ran, i)
		if i == 1 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.DeepEqual(t, ran, []int{0, 1})
}

func TestStageOf(t *testing.T) {
	assert.Equal(t, StageOf(staged{stage: StageAudio}), StageAudio)
	assert.Equal(t, StageOf("plain"), DefaultStage)
	assert.Equal(t, StageRenderBegin.String(), "render-begin")
	assert.Equal(t, Stage(42).String(), "unknown")
}
