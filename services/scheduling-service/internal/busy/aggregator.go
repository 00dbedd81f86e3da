// Package busy combines busy-time contributions from every upstream source
// into one list. It performs no I/O of its own; sources wrap repositories
// and external clients.
package busy

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

// Source supplies busy ranges for one upstream collaborator.
type Source interface {
	Kind() model.BusySource
	BusyIntervals(ctx context.Context, userID string, from, to time.Time) ([]interval.Range, error)
}

// Aggregator fans out to all configured sources concurrently and joins
// their contributions.
type Aggregator struct {
	sources []Source
	logger  *slog.Logger
}

func NewAggregator(logger *slog.Logger, sources ...Source) *Aggregator {
	return &Aggregator{sources: sources, logger: logger}
}

// Aggregate returns every busy interval reported by any source within
// [from, to). A failing source contributes an empty list and is logged;
// the aggregation itself never fails. The combined result is unsorted and
// is not de-duplicated across sources: the same commitment reported by two
// sources is kept twice.
func (a *Aggregator) Aggregate(ctx context.Context, userID string, from, to time.Time) []model.BusyInterval {
	results := make([][]model.BusyInterval, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			ranges, err := src.BusyIntervals(ctx, userID, from, to)
			if err != nil {
				a.logger.Warn("busy source failed; contributing no intervals",
					"source", string(src.Kind()), "user_id", userID, "err", err)
				return
			}
			out := make([]model.BusyInterval, 0, len(ranges))
			for _, r := range ranges {
				out = append(out, model.BusyInterval{Start: r.Start, End: r.End, Source: src.Kind()})
			}
			results[i] = out
		}(i, src)
	}
	wg.Wait()

	var combined []model.BusyInterval
	for _, part := range results {
		combined = append(combined, part...)
	}
	return combined
}

// FuncSource adapts a plain fetch function into a Source, so repositories
// can be wired without dedicated adapter types.
type FuncSource struct {
	SourceKind model.BusySource
	Fetch      func(ctx context.Context, userID string, from, to time.Time) ([]interval.Range, error)
}

func (s FuncSource) Kind() model.BusySource {
	return s.SourceKind
}

func (s FuncSource) BusyIntervals(ctx context.Context, userID string, from, to time.Time) ([]interval.Range, error) {
	return s.Fetch(ctx, userID, from, to)
}
