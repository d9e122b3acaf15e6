package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fooddiary/internal/domain"
)

const goalColumns = "id, user_id, calorie_limit, goal_weight, water_intake"

func scanGoal(row *sql.Row) (*domain.Goal, error) {
	var (
		g      domain.Goal
		weight sql.NullFloat64
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.CalorieLimit, &weight, &g.WaterIntake); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if weight.Valid {
		w := weight.Float64
		g.GoalWeight = &w
	}
	return &g, nil
}

// EnsureGoal creates the default goal for userID if none exists.
func (d *DB) EnsureGoal(ctx context.Context, userID int64) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO goals(user_id, water_intake) VALUES($1, $2) ON CONFLICT (user_id) DO NOTHING;",
		userID, domain.DefaultWaterIntake)
	return err
}

// GetGoal returns a user's goal, or nil.
func (d *DB) GetGoal(ctx context.Context, userID int64) (*domain.Goal, error) {
	return scanGoal(d.sql.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM goals WHERE user_id=$1;", userID))
}

// UpdateGoal applies a partial update in one statement. A goal weight of
// zero is stored as NULL.
func (d *DB) UpdateGoal(ctx context.Context, userID int64, u domain.GoalUpdate) (*domain.Goal, error) {
	var (
		limit  sql.NullFloat64
		weight sql.NullFloat64
		water  sql.NullInt64
	)
	if u.CalorieLimit != nil {
		limit = sql.NullFloat64{Float64: *u.CalorieLimit, Valid: true}
	}
	if u.GoalWeight != nil {
		weight = sql.NullFloat64{Float64: *u.GoalWeight, Valid: true}
	}
	if u.WaterIntake != nil {
		water = sql.NullInt64{Int64: int64(*u.WaterIntake), Valid: true}
	}
	return scanGoal(d.sql.QueryRowContext(ctx,
		`UPDATE goals SET
			calorie_limit = COALESCE($2, calorie_limit),
			goal_weight = CASE WHEN $3::double precision IS NULL THEN goal_weight ELSE NULLIF($3::double precision, 0) END,
			water_intake = COALESCE($4, water_intake)
		WHERE user_id=$1 RETURNING `+goalColumns+";",
		userID, limit, weight, water))
}
