package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
	"github.com/ericfisherdev/graphpilot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ActivityStore = (*ActivityRepo)(nil)

// ActivityRepo is the SQL implementation of the ActivityStore port interface.
type ActivityRepo struct {
	db *DB
}

// NewActivityRepo creates a new ActivityRepo backed by the given DB.
func NewActivityRepo(db *DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Record appends an activity row. An empty Detail is stored as NULL.
func (r *ActivityRepo) Record(ctx context.Context, rec model.ActivityRecord) (model.ActivityRecord, error) {
	query := r.db.rebind(`INSERT INTO activities (user_id, kind, target_id, detail)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at`)

	detail := sql.NullString{String: rec.Detail, Valid: rec.Detail != ""}

	var createdAt string
	err := r.db.Writer.QueryRowContext(ctx, query, rec.UserID, string(rec.Kind), rec.TargetID, detail).
		Scan(&rec.ID, &createdAt)
	if err != nil {
		return model.ActivityRecord{}, fmt.Errorf("record %s activity on %q: %w: %w", rec.Kind, rec.TargetID, driven.ErrStorageUnavailable, err)
	}

	rec.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.ActivityRecord{}, fmt.Errorf("parse created_at for activity %d: %w", rec.ID, err)
	}
	return rec, nil
}

// Recent returns at most limit activities for userID ordered by created_at
// DESC, then id DESC.
func (r *ActivityRepo) Recent(ctx context.Context, userID int64, limit int) ([]model.ActivityRecord, error) {
	if limit <= 0 {
		return []model.ActivityRecord{}, nil
	}

	query := r.db.rebind(`SELECT id, user_id, kind, target_id, detail, created_at
		FROM activities
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)

	rows, err := r.db.Reader.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities for user %d: %w: %w", userID, driven.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	result := []model.ActivityRecord{}
	for rows.Next() {
		var (
			rec       model.ActivityRecord
			kind      string
			detail    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &kind, &rec.TargetID, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		rec.Kind = model.ActivityKind(kind)
		rec.Detail = detail.String

		rec.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for activity %d: %w", rec.ID, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w: %w", driven.ErrStorageUnavailable, err)
	}

	return result, nil
}
