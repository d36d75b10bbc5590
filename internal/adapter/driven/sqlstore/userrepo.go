package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
	"github.com/ericfisherdev/graphpilot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQL implementation of the UserStore port interface.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Ensure inserts username if it is not present, then returns the stored row.
func (r *UserRepo) Ensure(ctx context.Context, username string) (model.User, error) {
	insert := r.db.rebind(`INSERT INTO users (username) VALUES (?) ON CONFLICT (username) DO NOTHING`)
	if _, err := r.db.Writer.ExecContext(ctx, insert, username); err != nil {
		return model.User{}, fmt.Errorf("ensure user %q: %w: %w", username, driven.ErrStorageUnavailable, err)
	}

	query := r.db.rebind(`SELECT id, username, email, created_at FROM users WHERE username = ?`)

	var (
		user      model.User
		email     sql.NullString
		createdAt string
	)
	// Read through the writer so the row just inserted is visible.
	err := r.db.Writer.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &email, &createdAt)
	if err != nil {
		return model.User{}, fmt.Errorf("get user %q: %w: %w", username, driven.ErrStorageUnavailable, err)
	}
	user.Email = email.String

	user.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.User{}, fmt.Errorf("parse created_at for user %q: %w", username, err)
	}
	return user, nil
}

// parseTime tries the SQLite datetime formats, plus the RFC 3339 text
// database/sql produces when a time.Time column is scanned into a string.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
