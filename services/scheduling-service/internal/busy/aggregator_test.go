package busy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedSource(kind model.BusySource, ranges ...interval.Range) Source {
	return FuncSource{
		SourceKind: kind,
		Fetch: func(context.Context, string, time.Time, time.Time) ([]interval.Range, error) {
			return ranges, nil
		},
	}
}

func failingSource(kind model.BusySource) Source {
	return FuncSource{
		SourceKind: kind,
		Fetch: func(context.Context, string, time.Time, time.Time) ([]interval.Range, error) {
			return nil, errors.New("provider unreachable")
		},
	}
}

func TestAggregate_CombinesAllSources(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	agg := NewAggregator(discardLogger(),
		fixedSource(model.SourceOwnedEvent, interval.Range{Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)}),
		fixedSource(model.SourceParticipation, interval.Range{Start: day.Add(11 * time.Hour), End: day.Add(12 * time.Hour)}),
		fixedSource(model.SourcePendingRequest),
		fixedSource(model.SourceExternalEvent, interval.Range{Start: day.Add(13 * time.Hour), End: day.Add(14 * time.Hour)}),
	)

	got := agg.Aggregate(context.Background(), "user-1", day, day.Add(24*time.Hour))
	if len(got) != 3 {
		t.Fatalf("expected 3 busy intervals, got %d", len(got))
	}

	byKind := map[model.BusySource]int{}
	for _, b := range got {
		byKind[b.Source]++
	}
	if byKind[model.SourceOwnedEvent] != 1 || byKind[model.SourceParticipation] != 1 || byKind[model.SourceExternalEvent] != 1 {
		t.Fatalf("unexpected source distribution: %v", byKind)
	}
}

func TestAggregate_DegradesOnSourceFailure(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	agg := NewAggregator(discardLogger(),
		fixedSource(model.SourceOwnedEvent, interval.Range{Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)}),
		fixedSource(model.SourceParticipation, interval.Range{Start: day.Add(10 * time.Hour), End: day.Add(11 * time.Hour)}),
		fixedSource(model.SourcePendingRequest, interval.Range{Start: day.Add(11 * time.Hour), End: day.Add(12 * time.Hour)}),
		failingSource(model.SourceExternalEvent),
	)

	got := agg.Aggregate(context.Background(), "user-1", day, day.Add(24*time.Hour))
	if len(got) != 3 {
		t.Fatalf("expected 3 intervals from the healthy sources, got %d", len(got))
	}
	for _, b := range got {
		if b.Source == model.SourceExternalEvent {
			t.Fatalf("failed source must not contribute, got %+v", b)
		}
	}
}

func TestAggregate_KeepsDuplicatesAcrossSources(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	same := interval.Range{Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)}
	agg := NewAggregator(discardLogger(),
		fixedSource(model.SourceOwnedEvent, same),
		fixedSource(model.SourceParticipation, same),
	)

	got := agg.Aggregate(context.Background(), "user-1", day, day.Add(24*time.Hour))
	if len(got) != 2 {
		t.Fatalf("expected both duplicate entries kept, got %d", len(got))
	}
}

func TestAggregate_NoSources(t *testing.T) {
	agg := NewAggregator(discardLogger())
	got := agg.Aggregate(context.Background(), "user-1", time.Now(), time.Now().Add(time.Hour))
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}
