package driven

import (
	"context"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
)

// ActivityStore defines the driven port for the append-only activity log.
type ActivityStore interface {
	// Record appends rec and returns it with ID and CreatedAt populated.
	Record(ctx context.Context, rec model.ActivityRecord) (model.ActivityRecord, error)

	// Recent returns at most limit records for userID, newest first.
	Recent(ctx context.Context, userID int64, limit int) ([]model.ActivityRecord, error)
}
