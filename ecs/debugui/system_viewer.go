package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ecsloop/ecs"
)

func NewSystemViewerComponent() SystemViewerComponent {
	return SystemViewerComponent{
		sortColumn:    1,
		sortAscending: true,
	}
}

// Render lists registered systems with their cache sizes and timings. It
// returns the name of a system clicked this frame, or "".
func (sv *SystemViewerComponent) Render(engine *ecs.Engine) string {
	if !imgui.BeginV("System Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return ""
	}

	stats := engine.Stats()
	imgui.Text(fmt.Sprintf("Systems: %d  Frame: %d  Running: %t", stats.SystemCount, stats.Frames, engine.Running()))
	imgui.Separator()

	var clicked string

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("SystemTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Priority")
		imgui.TableSetupColumn("Entities")
		imgui.TableSetupColumn("Avg (ms)")
		imgui.TableSetupColumn("Max (ms)")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			sv.sortColumn = int(spec.ColumnIndex())
			sv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}

		systems := stats.Systems
		sortSystemStats(systems, sv.sortColumn, sv.sortAscending)

		for _, sys := range systems {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(sys.Name, sv.selectedSystem == sys.Name, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				sv.selectedSystem = sys.Name
				clicked = sys.Name
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", sys.Priority))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", sys.Entities))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.3f", float64(sys.AvgDuration.Microseconds())/1000.0))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.3f", float64(sys.MaxDuration.Microseconds())/1000.0))
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked
}

func sortSystemStats(systems []ecs.SystemStats, column int, ascending bool) {
	sort.SliceStable(systems, func(i, j int) bool {
		a, b := systems[i], systems[j]
		var less bool

		switch column {
		case 0:
			less = a.Name < b.Name
		case 2:
			less = a.Entities < b.Entities
		case 3:
			less = a.AvgDuration < b.AvgDuration
		case 4:
			less = a.MaxDuration < b.MaxDuration
		default:
			less = a.Priority < b.Priority
		}

		if !ascending {
			return !less
		}
		return less
	})
}
