package slots

import (
	"testing"
	"time"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

// monday is 2026-03-02, a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func window(day time.Weekday, start, end string) model.WeeklyWindow {
	return model.WeeklyWindow{Weekday: day, StartClock: start, EndClock: end, Enabled: true}
}

func TestGenerate_PacksWindowBackToBack(t *testing.T) {
	windows := []model.WeeklyWindow{window(time.Monday, "09:00", "11:00")}

	got, err := Generate(windows, nil, monday, 30*time.Minute, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(got))
	}
	if !got[0].Start.Equal(monday.Add(9 * time.Hour)) {
		t.Fatalf("expected first slot at 09:00, got %s", got[0].Start.Format(time.RFC3339))
	}
	if !got[3].End.Equal(monday.Add(11 * time.Hour)) {
		t.Fatalf("expected last slot ending 11:00, got %s", got[3].End.Format(time.RFC3339))
	}
}

func TestGenerate_NoWindowForWeekday(t *testing.T) {
	windows := []model.WeeklyWindow{window(time.Tuesday, "09:00", "17:00")}
	got, err := Generate(windows, nil, monday, 30*time.Minute, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no slots, got %d", len(got))
	}
}

func TestGenerate_SkipsDisabledWindows(t *testing.T) {
	win := window(time.Monday, "09:00", "10:00")
	win.Enabled = false
	got, err := Generate([]model.WeeklyWindow{win}, nil, monday, 30*time.Minute, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no slots from disabled window, got %d", len(got))
	}
}

func TestGenerate_ExcludesBusyOverlaps(t *testing.T) {
	windows := []model.WeeklyWindow{window(time.Monday, "09:00", "12:00")}
	busy := []model.BusyInterval{
		{Start: monday.Add(10 * time.Hour), End: monday.Add(11 * time.Hour), Source: model.SourceOwnedEvent},
	}

	got, err := Generate(windows, busy, monday, 60*time.Minute, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	// 09:00 and 11:00 survive; 10:00 collides.
	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got))
	}
	for _, s := range got {
		if s.Overlaps(interval.Range{Start: busy[0].Start, End: busy[0].End}) {
			t.Fatalf("slot %+v overlaps busy interval", s)
		}
	}
}

func TestGenerate_SlotTouchingBusyIsKept(t *testing.T) {
	windows := []model.WeeklyWindow{window(time.Monday, "09:00", "10:00")}
	busy := []model.BusyInterval{
		{Start: monday.Add(9*time.Hour + 30*time.Minute), End: monday.Add(10 * time.Hour), Source: model.SourceParticipation},
	}

	got, err := Generate(windows, busy, monday, 30*time.Minute, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	// [09:00,09:30) touches the busy block but does not overlap it.
	if len(got) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(got))
	}
	if !got[0].Start.Equal(monday.Add(9 * time.Hour)) {
		t.Fatalf("expected slot at 09:00, got %s", got[0].Start.Format(time.RFC3339))
	}
}

func TestGenerate_BufferSpacing(t *testing.T) {
	windows := []model.WeeklyWindow{window(time.Monday, "09:00", "12:00")}

	got, err := Generate(windows, nil, monday, 30*time.Minute, 15*time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(got) < 2 {
		t.Fatalf("expected multiple slots, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		gap := got[i].Start.Sub(got[i-1].Start)
		if gap < 45*time.Minute {
			t.Fatalf("consecutive slots %d and %d start %v apart, want >= 45m", i-1, i, gap)
		}
	}
}

func TestGenerate_SlotNeverExceedsWindowEnd(t *testing.T) {
	windows := []model.WeeklyWindow{window(time.Monday, "09:00", "10:15")}

	got, err := Generate(windows, nil, monday, 30*time.Minute, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	windowEnd := monday.Add(10*time.Hour + 15*time.Minute)
	for _, s := range got {
		if s.End.After(windowEnd) {
			t.Fatalf("slot %+v extends past window end %s", s, windowEnd.Format(time.RFC3339))
		}
	}
	// 09:00 and 09:30 fit; 10:00 would end 10:30, past the window.
	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got))
	}
}

func TestGenerate_MultipleWindowsSameDay(t *testing.T) {
	windows := []model.WeeklyWindow{
		window(time.Monday, "09:00", "10:00"),
		window(time.Monday, "14:00", "15:00"),
	}

	got, err := Generate(windows, nil, monday, 60*time.Minute, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got))
	}
	if !got[0].Start.Equal(monday.Add(9*time.Hour)) || !got[1].Start.Equal(monday.Add(14*time.Hour)) {
		t.Fatalf("slots out of generation order: %+v", got)
	}
}

func TestGenerate_ValidationErrors(t *testing.T) {
	windows := []model.WeeklyWindow{window(time.Monday, "09:00", "17:00")}

	if _, err := Generate(windows, nil, monday, 0, 0); err == nil {
		t.Fatal("expected error for zero duration")
	}
	if _, err := Generate(windows, nil, monday, 30*time.Minute, -time.Minute); err == nil {
		t.Fatal("expected error for negative buffer")
	}

	bad := []model.WeeklyWindow{window(time.Monday, "9 o'clock", "17:00")}
	if _, err := Generate(bad, nil, monday, 30*time.Minute, 0); err == nil {
		t.Fatal("expected error for malformed clock string")
	}

	inverted := []model.WeeklyWindow{window(time.Monday, "17:00", "09:00")}
	if _, err := Generate(inverted, nil, monday, 30*time.Minute, 0); err == nil {
		t.Fatal("expected error for inverted window")
	}
}
