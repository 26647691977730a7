package debugui

import "github.com/plus3/ecsloop/ecs"

// Install creates the debug window entity and registers ImguiSystem with the
// engine. Windows render once per tick after every other system has run.
func Install(engine *ecs.Engine) ecs.Entity {
	r := engine.Registry()
	e := r.CreateEntity(
		NewEntityBrowserComponent(100),
		NewComponentInspectorComponent(),
		NewSystemViewerComponent(),
		NewPerformanceStatsComponent(120),
		NewQueryDebuggerComponent(),
		NewFrameTimer(),
	)

	c, _ := r.Components(e)
	c.Add(ImguiItem{Render: func() { renderWindows(engine, c) }})
	engine.Register(ImguiSystem())
	return e
}

func renderWindows(engine *ecs.Engine, c *ecs.Components) {
	r := engine.Registry()

	browser := ecs.MustGet[EntityBrowserComponent](c)
	if system := ecs.MustGet[SystemViewerComponent](c).Render(engine); system != "" {
		browser.filterSystem = system
		browser.currentPage = 0
	}
	browser.Render(r)

	if selected, ok := browser.Selected(); ok {
		ecs.MustGet[ComponentInspectorComponent](c).Render(r, selected)
	}
	ecs.MustGet[QueryDebuggerComponent](c).Render(r)
	ecs.MustGet[PerformanceStatsComponent](c).Render(engine, ecs.MustGet[FrameTimer](c).GetDeltaTime())
}
