package driven

import (
	"context"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
)

// UserStore defines the driven port for the users that own credentials and
// activity records.
type UserStore interface {
	// Ensure returns the user with the given username, creating it first if
	// it does not exist. Idempotent.
	Ensure(ctx context.Context, username string) (model.User, error)
}
