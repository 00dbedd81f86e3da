package storage

import (
	"context"
	"time"

	"github.com/tahsin-rahman/meetsync/libs/db"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

type AvailabilityRepository struct {
	pool *db.Pool
}

func NewAvailabilityRepository(pool *db.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// ListWindows returns the user's weekly availability template, enabled
// windows first by weekday then start clock.
func (r *AvailabilityRepository) ListWindows(ctx context.Context, userID string) ([]model.WeeklyWindow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT weekday, start_clock, end_clock, enabled
		FROM availability_windows
		WHERE user_id = $1
		ORDER BY weekday ASC, start_clock ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []model.WeeklyWindow
	for rows.Next() {
		var weekday int
		var win model.WeeklyWindow
		if err := rows.Scan(&weekday, &win.StartClock, &win.EndClock, &win.Enabled); err != nil {
			return nil, err
		}
		win.Weekday = time.Weekday(weekday)
		windows = append(windows, win)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return windows, nil
}
