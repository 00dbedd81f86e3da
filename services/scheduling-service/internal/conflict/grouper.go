// Package conflict partitions a day's calendar items into singles and
// chain-merged conflict groups for rendering.
package conflict

import (
	"sort"
	"strings"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

// Group partitions items into renderable entries ordered by start time.
// Items are chain-merged: an item joins the current group when its start is
// strictly before the group's running maximum end, so transitively
// overlapping items land in one group even when not every pair overlaps
// directly. Touching items (start == running end) never merge. Every input
// item appears in exactly one output entry.
func Group(items []model.CalendarItem) []model.RenderableItem {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]model.CalendarItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var out []model.RenderableItem
	group := []model.CalendarItem{sorted[0]}
	maxEnd := sorted[0].End

	for _, item := range sorted[1:] {
		if item.Start.Before(maxEnd) {
			group = append(group, item)
			if item.End.After(maxEnd) {
				maxEnd = item.End
			}
			continue
		}
		out = append(out, flush(group))
		group = []model.CalendarItem{item}
		maxEnd = item.End
	}
	return append(out, flush(group))
}

// flush emits a single-member group as a bare event; larger groups become
// a ConflictGroup spanning min(start) to max(end).
func flush(group []model.CalendarItem) model.RenderableItem {
	if len(group) == 1 {
		ev := group[0]
		return model.RenderableItem{Kind: model.RenderableEvent, Event: &ev}
	}

	start := group[0].Start
	end := group[0].End
	for _, it := range group[1:] {
		if it.End.After(end) {
			end = it.End
		}
	}
	members := make([]model.CalendarItem, len(group))
	copy(members, group)
	return model.RenderableItem{
		Kind: model.RenderableConflict,
		Group: &model.ConflictGroup{
			ID:      groupID(members),
			Start:   start,
			End:     end,
			Members: members,
		},
	}
}

// groupID is stable across calls for the same member set: member IDs are
// sorted before joining.
func groupID(members []model.CalendarItem) string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return "conflict-" + strings.Join(ids, "-")
}
