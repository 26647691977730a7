// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"math"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ecsloop/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystemName is the registration name of the system returned by ImguiSystem.
const ImguiSystemName = "debugui.imgui"

// ImguiSystem defers every ImguiItem render function to the end of the tick
// and refreshes the ImguiInputState singleton. It runs after every other
// system so windows observe the tick's final state.
func ImguiSystem() ecs.SystemDefinition {
	return ecs.SystemDefinition{
		Name:      ImguiSystemName,
		Priority:  math.MaxInt,
		Predicate: ecs.HasAll(ecs.TypeOf[ImguiItem]()),
		OnUpdate: func(frame *ecs.UpdateFrame) {
			state := ecs.SingletonOrCreate(frame.Registry, ImguiInputState{})
			state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
			state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

			for _, c := range frame.Entities.Components() {
				item := ecs.MustGet[ImguiItem](c)
				if item.Render != nil {
					frame.Commands.Defer(item.Render)
				}
			}
		},
	}
}
