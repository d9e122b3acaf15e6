package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fooddiary/internal/domain"
)

// AddWeightRecord appends a weight measurement.
func (d *DB) AddWeightRecord(ctx context.Context, userID int64, weight float64, createdAt time.Time) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO weight_records(user_id, weight, created_at) VALUES($1, $2, $3) RETURNING id;",
		userID, weight, createdAt.UTC(),
	).Scan(&id)
	return id, err
}

// LatestWeightRecord returns the user's most recent measurement.
func (d *DB) LatestWeightRecord(ctx context.Context, userID int64) (*domain.WeightRecord, error) {
	return d.scanWeight(d.sql.QueryRowContext(ctx,
		"SELECT id, user_id, weight, created_at FROM weight_records WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT 1;",
		userID,
	))
}

// LatestWeightForDay returns the user's most recent measurement within day.
func (d *DB) LatestWeightForDay(ctx context.Context, userID int64, day domain.DayBounds) (*domain.WeightRecord, error) {
	return d.scanWeight(d.sql.QueryRowContext(ctx,
		"SELECT id, user_id, weight, created_at FROM weight_records WHERE user_id=$1 AND created_at >= $2 AND created_at < $3 ORDER BY created_at DESC, id DESC LIMIT 1;",
		userID, day.Start.UTC(), day.End.UTC(),
	))
}

func (d *DB) scanWeight(row *sql.Row) (*domain.WeightRecord, error) {
	var e domain.WeightRecord
	if err := row.Scan(&e.ID, &e.UserID, &e.Weight, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListWeightRecordsSince returns the user's measurements since the given
// instant, oldest first.
func (d *DB) ListWeightRecordsSince(ctx context.Context, userID int64, since time.Time) ([]domain.WeightRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, user_id, weight, created_at FROM weight_records WHERE user_id=$1 AND created_at >= $2 ORDER BY created_at, id;",
		userID, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.WeightRecord, 0)
	for rows.Next() {
		var e domain.WeightRecord
		if err := rows.Scan(&e.ID, &e.UserID, &e.Weight, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
