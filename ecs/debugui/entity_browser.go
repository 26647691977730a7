package debugui

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ecsloop/ecs"
)

type EntityInfo struct {
	ID             ecs.Entity
	ComponentTypes []string
	Systems        []string
}

type EntityBrowserCache struct {
	entities        []EntityInfo
	lastEntityCount int
	lastTypeCount   int
	sortColumn      int
	sortAscending   bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:      0,
			sortAscending:   true,
			lastEntityCount: -1,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Render(r *ecs.Registry) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(r)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterSystem = ""
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		eb.cache.entities = nil
	}
	if eb.filterSystem != "" {
		imgui.Text(fmt.Sprintf("System: %s", eb.filterSystem))
	}

	filteredEntities := filterEntityInfos(eb.cache.entities, eb.filterText, eb.filterSystem)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Systems")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortEntityInfos(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
			filteredEntities = filterEntityInfos(eb.cache.entities, eb.filterText, eb.filterSystem)
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := min(eb.currentPage*eb.maxEntitiesPerPage, len(filteredEntities))
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.hasSelection && eb.selectedEntity == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntity = entity.ID
				eb.hasSelection = true
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.Systems, ", "))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(entity.ComponentTypes)))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(r *ecs.Registry) {
	entityCount, typeCount := r.Len(), len(r.ComponentTypes())
	if eb.cache.lastEntityCount != entityCount || eb.cache.lastTypeCount != typeCount {
		eb.cache.entities = nil
		eb.cache.lastEntityCount = entityCount
		eb.cache.lastTypeCount = typeCount
	}

	if eb.cache.entities == nil {
		eb.cache.entities = collectEntityInfos(r)
		sortEntityInfos(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
	}

	if eb.hasSelection && !r.HasEntity(eb.selectedEntity) {
		eb.hasSelection = false
	}
}

// Selected returns the entity picked in the table, if it is still live.
func (eb *EntityBrowserComponent) Selected() (ecs.Entity, bool) {
	return eb.selectedEntity, eb.hasSelection
}

func collectEntityInfos(r *ecs.Registry) []EntityInfo {
	systems := r.Systems()
	infos := make([]EntityInfo, 0, r.Len())

	for e, c := range r.Entities().Components() {
		info := EntityInfo{ID: e}
		for _, t := range c.Types() {
			info.ComponentTypes = append(info.ComponentTypes, t.String())
		}
		for _, s := range systems {
			if s.Has(e) {
				info.Systems = append(info.Systems, s.Name())
			}
		}
		infos = append(infos, info)
	}
	return infos
}

func sortEntityInfos(entities []EntityInfo, column int, ascending bool) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		var less bool

		switch column {
		case 1:
			less = len(a.Systems) < len(b.Systems)
		case 2:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			less = len(a.ComponentTypes) < len(b.ComponentTypes)
		default:
			less = a.ID < b.ID
		}

		if !ascending {
			return !less
		}
		return less
	})
}

func filterEntityInfos(entities []EntityInfo, text, system string) []EntityInfo {
	if text == "" && system == "" {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		if system != "" && !slices.Contains(entity.Systems, system) {
			continue
		}

		if text != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))
			systemsStr := strings.ToLower(strings.Join(entity.Systems, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(componentsStr, filterLower) &&
				!strings.Contains(systemsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}
