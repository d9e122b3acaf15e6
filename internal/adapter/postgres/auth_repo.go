package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fooddiary/internal/domain"
)

const (
	userColumns    = "id, username, password_hash, created_at"
	sessionColumns = "token, user_id, user_agent, ip, expires_at, created_at"
)

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// userBy returns the single user matching where, or nil.
func (d *DB) userBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	u, err := scanUser(d.sql.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where+";", arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetByUsername returns the user called username, or nil.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.userBy(ctx, "username=$1", username)
}

// GetByID returns the user with id, or nil.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return d.userBy(ctx, "id=$1", id)
}

// Create inserts a user. passwordHash is empty for accounts provisioned by
// forward auth or single sign-on.
func (d *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"INSERT INTO users(username, password_hash, created_at) VALUES($1, $2, $3) RETURNING "+userColumns+";",
		username, passwordHash, time.Now().UTC(),
	))
}

// Count returns the number of users.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, "SELECT count(*) FROM users;").Scan(&n)
	return n, err
}

// SessionRepo stores login sessions in the sessions table.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo returns the session repository backed by db.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a session for userID.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO sessions("+sessionColumns+") VALUES($1, $2, $3, $4, $5, $6);",
		token, userID, userAgent, ip, expiresAt.UTC(), time.Now().UTC(),
	)
	return err
}

// GetByToken returns the session for token, or nil. Expiry is checked by the
// caller.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.sql.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE token=$1;", token).
		Scan(&s.Token, &s.UserID, &s.UserAgent, &s.IP, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes the session for token. Unknown tokens are not an error.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token=$1;", token)
	return err
}

// DeleteExpired removes every session past its expiry.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < now();")
	return err
}
