package model

import "time"

// ActivityRecord is an immutable audit entry describing one completed action.
type ActivityRecord struct {
	ID        int64
	UserID    int64
	Kind      ActivityKind
	TargetID  string
	Detail    string // Empty is stored as NULL.
	CreatedAt time.Time
}
