package interval

import (
	"fmt"
	"time"
)

// Range is a half-open time range [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// New validates that start precedes end.
func New(start, end time.Time) (Range, error) {
	if !end.After(start) {
		return Range{}, fmt.Errorf("interval: end %s must be after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Range{Start: start, End: end}, nil
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps reports whether two half-open ranges share any instant.
// Touching ranges ([a,b) and [b,c)) do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether t falls inside [Start, End).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ContainsRange reports whether other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// OverlapsAny reports whether r overlaps any range in list.
func OverlapsAny(r Range, list []Range) bool {
	for _, b := range list {
		if r.Overlaps(b) {
			return true
		}
	}
	return false
}

// Merge collapses a start-sorted list into the minimal set of
// non-overlapping ranges. Touching ranges are joined.
func Merge(sorted []Range) []Range {
	var merged []Range
	for _, r := range sorted {
		if len(merged) > 0 && !r.Start.After(merged[len(merged)-1].End) {
			if r.End.After(merged[len(merged)-1].End) {
				merged[len(merged)-1].End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
