package postgres

import (
	"context"
	"database/sql"
	"time"

	"fooddiary/internal/domain"
)

const diaryJoinColumns = `e.id, e.user_id, e.food_item_id, e.meal_category, e.eaten_serving_size, e.date,
	f.id, f.name, f.standard_serving_size, f.calories_per_serving, f.serving_unit, f.barcode, f.created_at`

// AddDiaryEntry inserts an entry. An unknown food item fails with
// domain.ErrNotFound.
func (d *DB) AddDiaryEntry(ctx context.Context, userID, foodItemID int64, category domain.MealCategory, eatenServingSize float64, date time.Time) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO diary_entries(user_id, food_item_id, meal_category, eaten_serving_size, date) VALUES($1, $2, $3, $4, $5) RETURNING id;",
		userID, foodItemID, string(category), eatenServingSize, date.UTC(),
	).Scan(&id)
	if isForeignKeyViolation(err) {
		return 0, domain.ErrNotFound
	}
	return id, err
}

// UpdateDiaryEntryServing changes the eaten serving size of a user's entry.
func (d *DB) UpdateDiaryEntryServing(ctx context.Context, userID, id int64, eatenServingSize float64) (bool, error) {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE diary_entries SET eaten_serving_size=$3 WHERE id=$1 AND user_id=$2;",
		id, userID, eatenServingSize)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteDiaryEntry removes a user's entry.
func (d *DB) DeleteDiaryEntry(ctx context.Context, userID, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM diary_entries WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListDiaryEntries returns a user's entries within day joined with their
// food items. A nil category matches every category.
func (d *DB) ListDiaryEntries(ctx context.Context, userID int64, day domain.DayBounds, category *domain.MealCategory) ([]domain.DiaryEntry, error) {
	var cat sql.NullString
	if category != nil {
		cat = sql.NullString{String: string(*category), Valid: true}
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+diaryJoinColumns+`
		FROM diary_entries e LEFT JOIN food_items f ON f.id = e.food_item_id
		WHERE e.user_id=$1 AND e.date >= $2 AND e.date < $3 AND ($4::text IS NULL OR e.meal_category = $4)
		ORDER BY e.id;`,
		userID, day.Start.UTC(), day.End.UTC(), cat)
	if err != nil {
		return nil, err
	}
	return scanDiaryRows(rows)
}

// ListRecentDiaryEntries returns the newest entry per food item in category
// since the given instant, newest first.
func (d *DB) ListRecentDiaryEntries(ctx context.Context, userID int64, category domain.MealCategory, since time.Time, limit int) ([]domain.DiaryEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT * FROM (
			SELECT DISTINCT ON (e.food_item_id) `+diaryJoinColumns+`
			FROM diary_entries e LEFT JOIN food_items f ON f.id = e.food_item_id
			WHERE e.user_id=$1 AND e.meal_category=$2 AND e.date >= $3
			ORDER BY e.food_item_id, e.date DESC, e.id DESC
		) recent ORDER BY 6 DESC, 1 DESC LIMIT $4;`,
		userID, string(category), since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	return scanDiaryRows(rows)
}

// CountDiaryEntries returns how many entries a user logged in category within day.
func (d *DB) CountDiaryEntries(ctx context.Context, userID int64, day domain.DayBounds, category domain.MealCategory) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM diary_entries WHERE user_id=$1 AND meal_category=$2 AND date >= $3 AND date < $4;",
		userID, string(category), day.Start.UTC(), day.End.UTC(),
	).Scan(&n)
	return n, err
}

// scanDiaryRows reads joined rows. A missing food row leaves Food nil so the
// summary can report the integrity failure.
func scanDiaryRows(rows *sql.Rows) ([]domain.DiaryEntry, error) {
	defer rows.Close() //nolint:errcheck

	out := make([]domain.DiaryEntry, 0)
	for rows.Next() {
		var (
			e        domain.DiaryEntry
			category string
			fID      sql.NullInt64
			fName    sql.NullString
			fSize    sql.NullFloat64
			fKcal    sql.NullFloat64
			fUnit    sql.NullString
			fBarcode sql.NullString
			fCreated sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.FoodItemID, &category, &e.EatenServingSize, &e.Date,
			&fID, &fName, &fSize, &fKcal, &fUnit, &fBarcode, &fCreated); err != nil {
			return nil, err
		}
		e.MealCategory = domain.MealCategory(category)
		if fID.Valid {
			f := &domain.FoodItem{
				ID:                  fID.Int64,
				Name:                fName.String,
				StandardServingSize: fSize.Float64,
				CaloriesPerServing:  fKcal.Float64,
				ServingUnit:         domain.ServingUnit(fUnit.String),
				CreatedAt:           fCreated.Time,
			}
			if fBarcode.Valid {
				b := fBarcode.String
				f.Barcode = &b
			}
			e.Food = f
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
