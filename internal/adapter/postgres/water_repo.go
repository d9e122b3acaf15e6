package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fooddiary/internal/domain"
)

// AddWaterEntry inserts one cup for a user.
func (d *DB) AddWaterEntry(ctx context.Context, userID int64, createdAt time.Time) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO water_intake_records(user_id, created_at) VALUES($1, $2) RETURNING id;",
		userID, createdAt.UTC(),
	).Scan(&id)
	return id, err
}

// DeleteWaterEntry removes a water record by ID, scoped to a user.
func (d *DB) DeleteWaterEntry(ctx context.Context, userID int64, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM water_intake_records WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteLatestWaterEntry removes the user's newest water record.
func (d *DB) DeleteLatestWaterEntry(ctx context.Context, userID int64) (int64, bool, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		`DELETE FROM water_intake_records WHERE id = (
			SELECT id FROM water_intake_records WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT 1
		) AND user_id=$1 RETURNING id;`, userID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ListWaterEntriesForDay returns a user's water records within day, oldest first.
func (d *DB) ListWaterEntriesForDay(ctx context.Context, userID int64, day domain.DayBounds) ([]domain.WaterIntakeRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, created_at FROM water_intake_records WHERE user_id=$1 AND created_at >= $2 AND created_at < $3 ORDER BY created_at, id;",
		userID, day.Start.UTC(), day.End.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.WaterIntakeRecord, 0)
	for rows.Next() {
		e := domain.WaterIntakeRecord{UserID: userID}
		if err := rows.Scan(&e.ID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountWaterEntriesForDay returns how many cups a user logged within day.
func (d *DB) CountWaterEntriesForDay(ctx context.Context, userID int64, day domain.DayBounds) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM water_intake_records WHERE user_id=$1 AND created_at >= $2 AND created_at < $3;",
		userID, day.Start.UTC(), day.End.UTC(),
	).Scan(&n)
	return n, err
}
