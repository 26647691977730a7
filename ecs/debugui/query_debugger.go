package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ecsloop/ecs"
)

type QueryDebuggerCache struct {
	componentTypes  []ecs.ComponentType
	lastEntityCount int
}

func NewQueryDebuggerComponent() QueryDebuggerComponent {
	return QueryDebuggerComponent{
		selectedComponentTypes: make(map[string]bool),
		cache: &QueryDebuggerCache{
			lastEntityCount: -1,
		},
	}
}

// Render lets the user build a HasAll or HasOne predicate from the live
// component types and shows how many entities it matches.
func (qd *QueryDebuggerComponent) Render(r *ecs.Registry) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(r)

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selectedComponentTypes = make(map[string]bool)
	}
	imgui.SameLine()
	imgui.Checkbox("Match any", &qd.matchAny)

	for _, compType := range qd.cache.componentTypes {
		name := compType.String()
		selected := qd.selectedComponentTypes[name]
		if imgui.Checkbox(name, &selected) {
			if selected {
				qd.selectedComponentTypes[name] = true
			} else {
				delete(qd.selectedComponentTypes, name)
			}
		}
	}

	imgui.Separator()

	selectedTypes := qd.selectedTypes()
	if len(selectedTypes) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matches := r.FilterEntities(queryPredicate(selectedTypes, qd.matchAny))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", matches.Count()))

	if imgui.TreeNodeStr("Matching Systems") {
		for _, s := range r.Systems() {
			count := 0
			for e := range matches.All() {
				if s.Has(e) {
					count++
				}
			}
			if count > 0 {
				imgui.BulletText(fmt.Sprintf("%s: %d", s.Name(), count))
			}
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebuggerComponent) selectedTypes() []ecs.ComponentType {
	selected := make([]ecs.ComponentType, 0, len(qd.selectedComponentTypes))
	for _, t := range qd.cache.componentTypes {
		if qd.selectedComponentTypes[t.String()] {
			selected = append(selected, t)
		}
	}
	return selected
}

func (qd *QueryDebuggerComponent) rebuildCacheIfNeeded(r *ecs.Registry) {
	if qd.cache.lastEntityCount != r.Len() {
		qd.cache.componentTypes = nil
		qd.cache.lastEntityCount = r.Len()
	}

	if qd.cache.componentTypes == nil {
		qd.cache.componentTypes = r.ComponentTypes()
	}
}

func queryPredicate(types []ecs.ComponentType, matchAny bool) ecs.Predicate {
	if matchAny {
		return ecs.HasOne(types...)
	}
	return ecs.HasAll(types...)
}
