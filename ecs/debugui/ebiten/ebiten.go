// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/ecsloop/ecs/ebitenloop"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

func NewImguiBackend() *ImguiBackend {
	return &ImguiBackend{EbitenBackend: ebitenbackend.NewEbitenBackend()}
}

// Attach brackets every engine tick with an ImGui frame and draws the UI on
// top of whatever game.DrawFunc renders.
func (b *ImguiBackend) Attach(game *ebitenloop.Game) {
	game.BeforeUpdate = chain(game.BeforeUpdate, b.BeginFrame)
	game.AfterUpdate = chain(b.EndFrame, game.AfterUpdate)

	draw := game.DrawFunc
	game.DrawFunc = func(screen *ebiten.Image) {
		if draw != nil {
			draw(screen)
		}
		b.Draw(screen)
	}

	layout := game.LayoutFunc
	game.LayoutFunc = func(w, h int) {
		if layout != nil {
			layout(w, h)
		}
		b.Layout(w, h)
	}
}

func chain(first, second func()) func() {
	return func() {
		if first != nil {
			first()
		}
		if second != nil {
			second()
		}
	}
}
