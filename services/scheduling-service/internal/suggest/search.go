// Package suggest implements the coarse single-user "suggest a time"
// search. It assumes a flat Monday-Friday 09:00-17:00 policy and is meant
// for callers that have no per-user availability template; prefer the
// slots package when one is known.
package suggest

import (
	"time"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
)

const (
	workStartHour = 9
	workEndHour   = 17
	probeStep     = 30 * time.Minute

	// DefaultLookAheadDays bounds the search horizon when the caller
	// passes a non-positive value.
	DefaultLookAheadDays = 14
)

// NextOpenSlot returns the first weekday slot of the given duration inside
// 09:00-17:00 (in now's location) that collides with none of the busy
// ranges. Probes advance in fixed 30-minute steps regardless of duration.
// The second return is false when the look-ahead horizon is exhausted,
// which is a normal outcome rather than an error.
func NextOpenSlot(busy []interval.Range, now time.Time, duration time.Duration, lookAheadDays int) (interval.Range, bool) {
	if duration <= 0 {
		return interval.Range{}, false
	}
	if lookAheadDays <= 0 {
		lookAheadDays = DefaultLookAheadDays
	}

	loc := now.Location()
	for offset := 0; offset < lookAheadDays; offset++ {
		day := now.AddDate(0, 0, offset)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		dayStart := time.Date(day.Year(), day.Month(), day.Day(), workStartHour, 0, 0, 0, loc)
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), workEndHour, 0, 0, 0, loc)

		probe := dayStart
		if offset == 0 {
			if !now.Before(dayEnd) {
				continue
			}
			if now.After(dayStart) {
				probe = nextHalfHour(now)
			}
		}

		for ; !probe.Add(duration).After(dayEnd); probe = probe.Add(probeStep) {
			cand := interval.Range{Start: probe, End: probe.Add(duration)}
			if !collides(cand, busy) {
				return cand, true
			}
		}
	}
	return interval.Range{}, false
}

// collides checks the three classic conditions: the candidate starts inside
// an event, ends inside an event, or envelopes one.
func collides(cand interval.Range, busy []interval.Range) bool {
	for _, b := range busy {
		startsInside := !cand.Start.Before(b.Start) && cand.Start.Before(b.End)
		endsInside := cand.End.After(b.Start) && !cand.End.After(b.End)
		envelopes := !cand.Start.After(b.Start) && !cand.End.Before(b.End)
		if startsInside || endsInside || envelopes {
			return true
		}
	}
	return false
}

// nextHalfHour rounds t up to the next :00 or :30 boundary; an exact
// boundary is returned unchanged.
func nextHalfHour(t time.Time) time.Time {
	rem := time.Duration(t.Minute()%30)*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	if rem == 0 {
		return t
	}
	return t.Add(probeStep - rem)
}
