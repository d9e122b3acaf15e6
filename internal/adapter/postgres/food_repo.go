package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"fooddiary/internal/domain"
)

const foodColumns = "id, name, standard_serving_size, calories_per_serving, serving_unit, barcode, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (*domain.FoodItem, error) {
	var (
		f       domain.FoodItem
		unit    string
		barcode sql.NullString
	)
	if err := row.Scan(&f.ID, &f.Name, &f.StandardServingSize, &f.CaloriesPerServing, &unit, &barcode, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.ServingUnit = domain.ServingUnit(unit)
	if barcode.Valid {
		b := barcode.String
		f.Barcode = &b
	}
	return &f, nil
}

// CreateFoodItem inserts a food item. A barcode clash resolves to the row
// that already holds the barcode.
func (d *DB) CreateFoodItem(ctx context.Context, item domain.NewFoodItem) (*domain.FoodItem, error) {
	var barcode sql.NullString
	if item.Barcode != nil {
		barcode = sql.NullString{String: *item.Barcode, Valid: true}
	}
	return scanFood(d.sql.QueryRowContext(ctx,
		`INSERT INTO food_items(name, standard_serving_size, calories_per_serving, serving_unit, barcode)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (barcode) DO UPDATE SET barcode = EXCLUDED.barcode
		RETURNING `+foodColumns+";",
		item.Name, item.StandardServingSize, item.CaloriesPerServing, string(item.ServingUnit), barcode,
	))
}

// GetFoodItem returns a food item by id, or nil.
func (d *DB) GetFoodItem(ctx context.Context, id int64) (*domain.FoodItem, error) {
	f, err := scanFood(d.sql.QueryRowContext(ctx, "SELECT "+foodColumns+" FROM food_items WHERE id=$1;", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

// GetFoodItemByBarcode returns the food item registered under barcode, or nil.
func (d *DB) GetFoodItemByBarcode(ctx context.Context, barcode string) (*domain.FoodItem, error) {
	f, err := scanFood(d.sql.QueryRowContext(ctx, "SELECT "+foodColumns+" FROM food_items WHERE barcode=$1;", barcode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

// SearchFoodItems returns food items whose name contains name, ignoring case.
func (d *DB) SearchFoodItems(ctx context.Context, name string, limit int) ([]domain.FoodItem, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+foodColumns+" FROM food_items WHERE lower(name) LIKE '%' || $1 || '%' ESCAPE '\\' ORDER BY name, id LIMIT $2;",
		escapeLike(strings.ToLower(name)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.FoodItem, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
