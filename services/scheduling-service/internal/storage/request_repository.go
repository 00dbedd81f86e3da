package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tahsin-rahman/meetsync/libs/db"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

type RequestRepository struct {
	pool *db.Pool
}

func NewRequestRepository(pool *db.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

// ListPendingIntervals returns busy ranges from unresolved meeting requests
// where the user is either side of the invitation.
func (r *RequestRepository) ListPendingIntervals(ctx context.Context, userID string, from, to time.Time) ([]interval.Range, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_time, end_time
		FROM meeting_requests
		WHERE (invitee_id = $1 OR organizer_id = $1)
			AND status = 'pending'
			AND start_time < $3
			AND end_time > $2
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRanges(rows)
}

// CreateMeetingRequest inserts a pending request and returns its id.
func (r *RequestRepository) CreateMeetingRequest(ctx context.Context, req *model.MeetingRequest) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO meeting_requests (id, organizer_id, invitee_id, title, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
	`, id, req.OrganizerID, req.InviteeID, req.Title, req.Start, req.End)
	if err != nil {
		return "", err
	}
	return id, nil
}
