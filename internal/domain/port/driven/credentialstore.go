// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
)

// ErrStorageUnavailable wraps every read or write failure of a storage
// adapter, including connectivity loss.
var ErrStorageUnavailable = errors.New("storage unavailable")

// CredentialStore defines the driven port for bearer credential persistence.
// Every Save inserts a new row; nothing is overwritten or deduplicated.
type CredentialStore interface {
	// Save inserts a credential for userID and returns it with the assigned
	// ID and creation time.
	Save(ctx context.Context, userID int64, token string) (model.Credential, error)

	// Latest returns the most recently created credential for userID.
	// Returns (nil, nil) if the user has no credentials.
	Latest(ctx context.Context, userID int64) (*model.Credential, error)
}
