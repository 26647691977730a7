// Package ebitenloop drives an ECS engine from Ebiten's update loop. The
// engine ticks once per Ebiten update, on Ebiten's goroutine.
package ebitenloop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/ecsloop/ecs"
)

// Game implements ebiten.Game and ecs.Ticker. Hand it to ecs.NewEngine as
// the ticker, then run it with Run.
type Game struct {
	ecs.ManualTicker

	// BeforeUpdate and AfterUpdate bracket each tick, e.g. to begin and end
	// an ImGui frame.
	BeforeUpdate func()
	AfterUpdate  func()
	// DrawFunc renders the current state. Nil draws nothing.
	DrawFunc func(screen *ebiten.Image)
	// LayoutFunc observes window size changes.
	LayoutFunc func(outsideWidth, outsideHeight int)
	// ExitOnStop ends the Ebiten loop once the engine stops scheduling ticks.
	ExitOnStop bool
}

func NewGame() *Game {
	return &Game{ExitOnStop: true}
}

func (g *Game) Update() error {
	if g.BeforeUpdate != nil {
		g.BeforeUpdate()
	}
	g.Step()
	if g.AfterUpdate != nil {
		g.AfterUpdate()
	}

	if g.ExitOnStop && !g.Pending() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.DrawFunc != nil {
		g.DrawFunc(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.LayoutFunc != nil {
		g.LayoutFunc(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run starts engine, blocks in ebiten.RunGame until the window closes or the
// engine stops, then stops engine.
func Run(engine *ecs.Engine, game *Game) error {
	engine.Start()
	defer engine.Stop()
	return ebiten.RunGame(game)
}
