package ebiten_test

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ecsloop/ecs"
	"github.com/plus3/ecsloop/ecs/debugui"
	debugui_ebiten "github.com/plus3/ecsloop/ecs/debugui/ebiten"
	"github.com/plus3/ecsloop/ecs/ebitenloop"
)

func Example() {
	// Create Ebiten window and ImGui backend
	backend := debugui_ebiten.NewImguiBackend()
	backend.CreateWindow("ECS ImGui Example", 1280, 720)
	imgui.CurrentIO().SetIniFilename("") // Disable imgui.ini

	registry := ecs.NewRegistry()
	game := ebitenloop.NewGame()
	backend.Attach(game)
	engine := ecs.NewEngine(registry, game)

	// Entities with ImGui render functions
	registry.CreateEntity(debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Debug Window")
			imgui.Text("Hello from ECS!")
			imgui.End()
		},
	})

	// Entity browser, inspector, system viewer and friends
	debugui.Install(engine)

	if err := ebitenloop.Run(engine, game); err != nil {
		panic(err)
	}
}
