// Package memory implements the storage ports in process memory. It is
// selected when no database connection string is configured; nothing
// survives process exit.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
	"github.com/ericfisherdev/graphpilot/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.UserStore       = (*Store)(nil)
	_ driven.CredentialStore = (*Store)(nil)
	_ driven.ActivityStore   = (*Store)(nil)
)

// Store holds users, credentials and activities in insertion-ordered slices.
// IDs are assigned sequentially per table starting at 1, like the durable
// store's auto-increment columns.
type Store struct {
	mu          sync.RWMutex
	users       []model.User
	credentials []model.Credential
	activities  []model.ActivityRecord
	now         func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// Ensure returns the user with username, creating it if needed.
func (s *Store) Ensure(ctx context.Context, username string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, fmt.Errorf("ensure user %q: %w: %w", username, driven.ErrStorageUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}

	u := model.User{
		ID:        int64(len(s.users) + 1),
		Username:  username,
		CreatedAt: s.now(),
	}
	s.users = append(s.users, u)
	return u, nil
}

// Save appends a credential for userID.
func (s *Store) Save(ctx context.Context, userID int64, token string) (model.Credential, error) {
	if err := ctx.Err(); err != nil {
		return model.Credential{}, fmt.Errorf("save credential for user %d: %w: %w", userID, driven.ErrStorageUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cred := model.Credential{
		ID:        int64(len(s.credentials) + 1),
		UserID:    userID,
		Token:     token,
		CreatedAt: s.now(),
	}
	s.credentials = append(s.credentials, cred)
	return cred, nil
}

// Latest returns the last credential saved for userID, or (nil, nil).
func (s *Store) Latest(ctx context.Context, userID int64) (*model.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get latest credential for user %d: %w: %w", userID, driven.ErrStorageUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.credentials) - 1; i >= 0; i-- {
		if s.credentials[i].UserID == userID {
			cred := s.credentials[i]
			return &cred, nil
		}
	}
	return nil, nil
}

// Record appends an activity.
func (s *Store) Record(ctx context.Context, rec model.ActivityRecord) (model.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.ActivityRecord{}, fmt.Errorf("record %s activity on %q: %w: %w", rec.Kind, rec.TargetID, driven.ErrStorageUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = int64(len(s.activities) + 1)
	rec.CreatedAt = s.now()
	s.activities = append(s.activities, rec)
	return rec, nil
}

// Recent returns at most limit activities for userID, newest first.
func (s *Store) Recent(ctx context.Context, userID int64, limit int) ([]model.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list activities for user %d: %w: %w", userID, driven.ErrStorageUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []model.ActivityRecord{}
	for i := len(s.activities) - 1; i >= 0 && len(result) < limit; i-- {
		if s.activities[i].UserID == userID {
			result = append(result, s.activities[i])
		}
	}
	return result, nil
}
