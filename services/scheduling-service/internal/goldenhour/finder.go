// Package goldenhour computes the UTC windows in which every user of a
// roster is simultaneously inside their own timezone-local working hours.
package goldenhour

import (
	"fmt"
	"time"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

const tickSize = 15 * time.Minute

const ticksPerDay = 96

// Find scans the UTC day containing referenceDate in 15-minute ticks and
// returns the merged ranges where every user's local fractional hour of day
// lies in [WorkStart, WorkEnd). An empty roster yields no ranges. Invalid
// IANA timezone names fail fast.
//
// Day-of-week is not considered: a user whose local tick lands on their
// Saturday still counts as working. Known gap, kept until per-user weekend
// preferences exist.
func Find(users []model.UserTimezoneProfile, referenceDate time.Time) ([]interval.Range, error) {
	if len(users) == 0 {
		return nil, nil
	}

	locs := make([]*time.Location, len(users))
	for i, u := range users {
		loc, err := time.LoadLocation(u.Timezone)
		if err != nil {
			return nil, fmt.Errorf("goldenhour: invalid timezone %q for user %s: %w", u.Timezone, u.UserID, err)
		}
		locs[i] = loc
	}

	utc := referenceDate.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)

	var ranges []interval.Range
	prevGolden := false
	for i := 0; i < ticksPerDay; i++ {
		tick := midnight.Add(time.Duration(i) * tickSize)
		golden := true
		for j, u := range users {
			local := tick.In(locs[j])
			hour := float64(local.Hour()) + float64(local.Minute())/60
			if hour < u.WorkStart || hour >= u.WorkEnd {
				golden = false
				break
			}
		}
		if golden {
			if prevGolden {
				ranges[len(ranges)-1].End = tick.Add(tickSize)
			} else {
				ranges = append(ranges, interval.Range{Start: tick, End: tick.Add(tickSize)})
			}
		}
		prevGolden = golden
	}
	return ranges, nil
}
