package suggest

import (
	"testing"
	"time"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func TestNextOpenSlot_MorningBeforeWork(t *testing.T) {
	got, ok := NextOpenSlot(nil, at(monday, 8, 0), 30*time.Minute, 14)
	if !ok {
		t.Fatal("expected a slot")
	}
	if !got.Start.Equal(at(monday, 9, 0)) || !got.End.Equal(at(monday, 9, 30)) {
		t.Fatalf("expected 09:00-09:30, got %s-%s", got.Start.Format("15:04"), got.End.Format("15:04"))
	}
}

func TestNextOpenSlot_RoundsUpToHalfHour(t *testing.T) {
	got, ok := NextOpenSlot(nil, at(monday, 10, 12), 30*time.Minute, 14)
	if !ok {
		t.Fatal("expected a slot")
	}
	if !got.Start.Equal(at(monday, 10, 30)) {
		t.Fatalf("expected probe start 10:30, got %s", got.Start.Format("15:04"))
	}
}

func TestNextOpenSlot_AfterHoursMovesToNextDay(t *testing.T) {
	got, ok := NextOpenSlot(nil, at(monday, 17, 45), 30*time.Minute, 14)
	if !ok {
		t.Fatal("expected a slot")
	}
	tuesday := monday.AddDate(0, 0, 1)
	if !got.Start.Equal(at(tuesday, 9, 0)) {
		t.Fatalf("expected Tuesday 09:00, got %s", got.Start.Format(time.RFC3339))
	}
}

func TestNextOpenSlot_SkipsWeekend(t *testing.T) {
	friday := monday.AddDate(0, 0, 4)
	got, ok := NextOpenSlot(nil, at(friday, 18, 0), 30*time.Minute, 14)
	if !ok {
		t.Fatal("expected a slot")
	}
	nextMonday := monday.AddDate(0, 0, 7)
	if !got.Start.Equal(at(nextMonday, 9, 0)) {
		t.Fatalf("expected next Monday 09:00, got %s", got.Start.Format(time.RFC3339))
	}
}

func TestNextOpenSlot_SkipsBusyMorning(t *testing.T) {
	busy := []interval.Range{
		{Start: at(monday, 9, 0), End: at(monday, 12, 0)},
	}
	got, ok := NextOpenSlot(busy, at(monday, 8, 0), 30*time.Minute, 14)
	if !ok {
		t.Fatal("expected a slot")
	}
	if !got.Start.Equal(at(monday, 12, 0)) {
		t.Fatalf("expected 12:00, got %s", got.Start.Format("15:04"))
	}
}

func TestNextOpenSlot_RejectsEnvelopingCandidate(t *testing.T) {
	// A short meeting sits inside the probe window; the 60-minute candidate
	// would envelope it and must be rejected.
	busy := []interval.Range{
		{Start: at(monday, 9, 15), End: at(monday, 9, 45)},
	}
	got, ok := NextOpenSlot(busy, at(monday, 8, 0), 60*time.Minute, 14)
	if !ok {
		t.Fatal("expected a slot")
	}
	if !got.Start.Equal(at(monday, 10, 0)) {
		t.Fatalf("expected 10:00, got %s", got.Start.Format("15:04"))
	}
}

func TestNextOpenSlot_NeverEndsPastFive(t *testing.T) {
	// Everything free except the probe positions that fit: with a 90-minute
	// duration the last viable probe is 15:30.
	busy := []interval.Range{
		{Start: at(monday, 9, 0), End: at(monday, 15, 30)},
	}
	got, ok := NextOpenSlot(busy, at(monday, 8, 0), 90*time.Minute, 14)
	if !ok {
		t.Fatal("expected a slot")
	}
	if !got.Start.Equal(at(monday, 15, 30)) || !got.End.Equal(at(monday, 17, 0)) {
		t.Fatalf("expected 15:30-17:00, got %s-%s", got.Start.Format("15:04"), got.End.Format("15:04"))
	}
}

func TestNextOpenSlot_HorizonExhausted(t *testing.T) {
	busy := []interval.Range{
		{Start: at(monday, 9, 0), End: at(monday, 17, 0)},
	}
	_, ok := NextOpenSlot(busy, at(monday, 8, 0), 30*time.Minute, 1)
	if ok {
		t.Fatal("expected no slot within a fully booked one-day horizon")
	}
}

func TestNextOpenSlot_InvalidDuration(t *testing.T) {
	if _, ok := NextOpenSlot(nil, at(monday, 8, 0), 0, 14); ok {
		t.Fatal("expected no slot for zero duration")
	}
}
