// Package storage holds the pgx repositories backing the scheduling
// engine's busy-time sources and lookups.
package storage

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
)

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func scanRanges(rows pgx.Rows) ([]interval.Range, error) {
	var ranges []interval.Range
	for rows.Next() {
		var r interval.Range
		if err := rows.Scan(&r.Start, &r.End); err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return ranges, nil
}
