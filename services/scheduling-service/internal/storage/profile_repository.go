package storage

import (
	"context"

	"github.com/tahsin-rahman/meetsync/libs/db"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
)

type ProfileRepository struct {
	pool *db.Pool
}

func NewProfileRepository(pool *db.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// ListProfiles returns timezone profiles for the given users, in the
// stored order of user id. Unknown ids are simply absent from the result.
func (r *ProfileRepository) ListProfiles(ctx context.Context, userIDs []string) ([]model.UserTimezoneProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, timezone, work_start_hour, work_end_hour
		FROM user_timezone_profiles
		WHERE user_id = ANY($1)
		ORDER BY user_id ASC
	`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.UserTimezoneProfile
	for rows.Next() {
		var p model.UserTimezoneProfile
		if err := rows.Scan(&p.UserID, &p.Timezone, &p.WorkStart, &p.WorkEnd); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return profiles, nil
}
