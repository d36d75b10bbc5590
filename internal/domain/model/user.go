package model

import "time"

// User owns credentials and activity records. A single default user is
// assumed when no multi-user identity system is in use.
type User struct {
	ID        int64
	Username  string
	Email     string // Empty when unknown.
	CreatedAt time.Time
}
