// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"fooddiary/internal/domain"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, username TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, user_agent TEXT NOT NULL DEFAULT '', ip TEXT NOT NULL DEFAULT '', expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
		"CREATE TABLE IF NOT EXISTS meal_categories (name TEXT PRIMARY KEY, position INT NOT NULL);",
		"CREATE TABLE IF NOT EXISTS food_items (id BIGSERIAL PRIMARY KEY, name TEXT NOT NULL, standard_serving_size DOUBLE PRECISION NOT NULL CHECK(standard_serving_size > 0 AND standard_serving_size <= 1000000), calories_per_serving DOUBLE PRECISION NOT NULL CHECK(calories_per_serving >= 0 AND calories_per_serving <= 1000000), serving_unit TEXT NOT NULL CHECK(serving_unit IN ('g','mL')), barcode TEXT UNIQUE, created_at TIMESTAMPTZ NOT NULL DEFAULT now());",
		"CREATE INDEX IF NOT EXISTS idx_food_items_name ON food_items(lower(name));",
		"CREATE TABLE IF NOT EXISTS diary_entries (id BIGSERIAL PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, food_item_id BIGINT NOT NULL REFERENCES food_items(id), meal_category TEXT NOT NULL REFERENCES meal_categories(name), eaten_serving_size DOUBLE PRECISION NOT NULL CHECK(eaten_serving_size > 0 AND eaten_serving_size <= 1000000), date TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_diary_entries_user_date ON diary_entries(user_id, date);",
		"CREATE TABLE IF NOT EXISTS goals (id BIGSERIAL PRIMARY KEY, user_id BIGINT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE, calorie_limit DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(calorie_limit >= 0), goal_weight DOUBLE PRECISION CHECK(goal_weight > 0), water_intake INT NOT NULL DEFAULT 8 CHECK(water_intake >= 0));",
		"CREATE TABLE IF NOT EXISTS weight_records (id BIGSERIAL PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, weight DOUBLE PRECISION NOT NULL CHECK(weight > 0), created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_weight_records_user_created ON weight_records(user_id, created_at);",
		"CREATE TABLE IF NOT EXISTS water_intake_records (id BIGSERIAL PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_water_intake_records_user_created ON water_intake_records(user_id, created_at);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	for i, c := range domain.MealCategories() {
		if _, err := d.sql.ExecContext(ctx,
			"INSERT INTO meal_categories(name, position) VALUES($1, $2) ON CONFLICT (name) DO NOTHING;",
			string(c), i,
		); err != nil {
			return fmt.Errorf("migrate: seed meal categories: %w", err)
		}
	}
	return nil
}

// isForeignKeyViolation reports whether err is a PostgreSQL
// foreign_key_violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
