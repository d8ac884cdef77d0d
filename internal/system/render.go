package system

import (
	"fmt"

	"github.com/gridsnake/engine/internal/component"
	"github.com/gridsnake/engine/internal/core/ecs"
	"github.com/gridsnake/engine/internal/core/event"
	coresys "github.com/gridsnake/engine/internal/core/system"
	"github.com/gridsnake/engine/internal/world"
)

// Glyphs used by RenderSystem.
const (
	GlyphWall = '#'
	GlyphFood = '*'
	GlyphBody = 'o'
	GlyphHead = '@'
)

// FrameBeginSystem starts a frame on the renderer.
type FrameBeginSystem struct{}

func (FrameBeginSystem) Name() string         { return "frame-begin" }
func (FrameBeginSystem) Stage() coresys.Stage { return coresys.StageRenderBegin }

func (FrameBeginSystem) Update(a *App, _ *world.State, _ *World) error {
	if a != nil && a.Renderer != nil {
		a.Renderer.Begin()
	}
	return nil
}

// FrameEndSystem presents the frame. A renderer failure ends the tick.
type FrameEndSystem struct{}

func (FrameEndSystem) Name() string         { return "frame-end" }
func (FrameEndSystem) Stage() coresys.Stage { return coresys.StageRenderEnd }

func (FrameEndSystem) Update(a *App, _ *world.State, _ *World) error {
	if a == nil || a.Renderer == nil {
		return nil
	}
	if err := a.Renderer.End(); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}

// RenderSystem draws the board and the score line below it.
type RenderSystem struct {
	score int
}

func NewRenderSystem() *RenderSystem { return &RenderSystem{} }

func (s *RenderSystem) Name() string               { return "render" }
func (s *RenderSystem) Stage() coresys.Stage       { return coresys.StageRenderDraw }
func (s *RenderSystem) Receiver() event.ReceiverID { return event.RecvRender }

func (s *RenderSystem) Update(a *App, scene *world.State, w *World) error {
	err := w.Bus.Drain(event.RecvRender, func(m event.Message) error {
		if m.Kind == event.ScoreChanged {
			s.score = m.Score
		}
		return nil
	})
	if err != nil || a == nil || a.Renderer == nil {
		return err
	}

	pos, err := ecs.List[component.Position](w.Components)
	if err != nil {
		return err
	}
	draw := func(glyph rune) func(ecs.EntityID, *component.Position) {
		return func(_ ecs.EntityID, p *component.Position) {
			a.Renderer.DrawCell(p.X, p.Y, glyph)
		}
	}
	walls, err := ecs.List[component.Wall](w.Components)
	if err != nil {
		return err
	}
	food, bodies, heads, err := ecs.Lists3[component.Food, component.Body, component.Head](w.Components)
	if err != nil {
		return err
	}
	eachWith(walls, pos, draw(GlyphWall))
	eachWith(food, pos, draw(GlyphFood))
	eachWith(bodies, pos, draw(GlyphBody))
	eachWith(heads, pos, draw(GlyphHead))

	a.Renderer.DrawText(0, scene.Level.Height, s.hud(a.Global, scene))
	return nil
}

// eachWith visits the position of every entity in tags.
func eachWith[T any](tags *ecs.ComponentList[T], pos *ecs.ComponentList[component.Position], fn func(ecs.EntityID, *component.Position)) {
	ecs.Each2(tags, pos, func(id ecs.EntityID, _ *T, p *component.Position) {
		fn(id, p)
	})
}

func (s *RenderSystem) hud(g *world.Global, scene *world.State) string {
	score := fmt.Sprint(s.score)
	best := "0"
	if g != nil {
		score = g.FormatScore(s.score)
		best = g.FormatScore(g.HighScore)
	}
	line := fmt.Sprintf("score %s  best %s", score, best)
	if scene.GameOver {
		line += "  GAME OVER (r to restart)"
	}
	return line
}
