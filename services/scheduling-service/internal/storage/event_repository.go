package storage

import (
	"context"
	"time"

	"github.com/tahsin-rahman/meetsync/libs/db"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

type EventRepository struct {
	pool *db.Pool
}

func NewEventRepository(pool *db.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// ListOwnedIntervals returns the busy ranges of events the user organizes
// that intersect [from, to).
func (r *EventRepository) ListOwnedIntervals(ctx context.Context, userID string, from, to time.Time) ([]interval.Range, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_time, end_time
		FROM events
		WHERE owner_id = $1
			AND status <> 'cancelled'
			AND start_time < $3
			AND end_time > $2
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRanges(rows)
}

// ListParticipationIntervals returns busy ranges of events the user attends
// but does not organize.
func (r *EventRepository) ListParticipationIntervals(ctx context.Context, userID string, from, to time.Time) ([]interval.Range, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.start_time, e.end_time
		FROM events e
		JOIN event_participants p ON p.event_id = e.id
		WHERE p.user_id = $1
			AND e.owner_id <> $1
			AND e.status <> 'cancelled'
			AND e.start_time < $3
			AND e.end_time > $2
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRanges(rows)
}

// ListItemsForDay returns every calendar item visible to the user (owned or
// attended) intersecting [dayStart, dayEnd), ordered by start time.
func (r *EventRepository) ListItemsForDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) ([]model.CalendarItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT e.id, e.title, e.start_time, e.end_time, e.owner_id, COALESCE(e.location, '')
		FROM events e
		LEFT JOIN event_participants p ON p.event_id = e.id
		WHERE (e.owner_id = $1 OR p.user_id = $1)
			AND e.status <> 'cancelled'
			AND e.start_time < $3
			AND e.end_time > $2
		ORDER BY e.start_time ASC
	`, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.CalendarItem
	for rows.Next() {
		var it model.CalendarItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Start, &it.End, &it.OwnerID, &it.Location); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}
