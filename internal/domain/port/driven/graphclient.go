package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
)

// ErrRemoteRejected matches every *RemoteError.
var ErrRemoteRejected = errors.New("remote rejected")

// RemoteError describes a failed Graph API call: a transport error, a non-2xx
// response, or a response lacking the expected success field.
type RemoteError struct {
	StatusCode int    // 0 when the request never produced a response.
	Code       int    // Graph error code, when the payload carried one.
	Message    string // Graph error message or a local description.
	Payload    []byte // Raw response body, possibly empty.
	Err        error  // Underlying transport or decode error, if any.
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("remote rejected: %v", e.Err)
	case e.Code != 0:
		return fmt.Sprintf("remote rejected (HTTP %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	default:
		return fmt.Sprintf("remote rejected (HTTP %d): %s", e.StatusCode, e.Message)
	}
}

// Is reports whether target is ErrRemoteRejected.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteRejected
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// GraphClient defines the driven port for Graph API actions. Each method
// issues exactly one HTTP request and never retries. Failures are returned as
// *RemoteError.
type GraphClient interface {
	// React adds a reaction to a post or comment.
	React(ctx context.Context, token string, kind model.TargetKind, targetID string, reaction model.ReactionType) (model.Ack, error)

	// Comment posts message on postID and returns the created comment.
	Comment(ctx context.Context, token, postID, message string) (model.CreatedObject, error)

	// Follow subscribes the token owner to userID.
	Follow(ctx context.Context, token, userID string) (model.Ack, error)

	// Unfollow removes the token owner's subscription to userID.
	Unfollow(ctx context.Context, token, userID string) (model.Ack, error)

	// Share publishes a link to postID on the token owner's feed.
	Share(ctx context.Context, token, postID string) (model.CreatedObject, error)

	// Me returns the profile the token belongs to. Used to validate tokens.
	Me(ctx context.Context, token string) (model.Profile, error)
}
