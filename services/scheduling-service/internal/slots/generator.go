// Package slots intersects a user's recurring weekly availability template
// with aggregated busy intervals to produce concrete bookable slots.
package slots

import (
	"fmt"
	"time"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

// Generate returns every [start, start+duration) slot on the given day that
// fits an enabled availability window for that weekday and overlaps no busy
// interval. Candidate starts advance by duration+buffer within each window,
// so the buffer gap between consecutive slots holds by construction; with a
// zero buffer this degenerates to back-to-back packing.
//
// Wall-clock window bounds are anchored to day in day's location. Slots are
// returned in generation order, not globally re-sorted.
func Generate(windows []model.WeeklyWindow, busyList []model.BusyInterval, day time.Time, duration, buffer time.Duration) ([]interval.Range, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("slots: duration must be positive, got %v", duration)
	}
	if buffer < 0 {
		return nil, fmt.Errorf("slots: buffer must not be negative, got %v", buffer)
	}

	busy := make([]interval.Range, 0, len(busyList))
	for _, b := range busyList {
		busy = append(busy, interval.Range{Start: b.Start, End: b.End})
	}

	stride := duration + buffer
	var out []interval.Range
	for _, win := range windows {
		if !win.Enabled || win.Weekday != day.Weekday() {
			continue
		}
		bounds, err := anchorWindow(win, day)
		if err != nil {
			return nil, err
		}
		for t := bounds.Start; !t.Add(duration).After(bounds.End); t = t.Add(stride) {
			cand := interval.Range{Start: t, End: t.Add(duration)}
			if !interval.OverlapsAny(cand, busy) {
				out = append(out, cand)
			}
		}
	}
	return out, nil
}

// anchorWindow projects the window's wall-clock bounds onto the given day.
func anchorWindow(win model.WeeklyWindow, day time.Time) (interval.Range, error) {
	start, err := clockOnDay(win.StartClock, day)
	if err != nil {
		return interval.Range{}, err
	}
	end, err := clockOnDay(win.EndClock, day)
	if err != nil {
		return interval.Range{}, err
	}
	r, err := interval.New(start, end)
	if err != nil {
		return interval.Range{}, fmt.Errorf("slots: window %s-%s on %s: %w", win.StartClock, win.EndClock, win.Weekday, err)
	}
	return r, nil
}

func clockOnDay(clock string, day time.Time) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("slots: invalid clock value %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}
