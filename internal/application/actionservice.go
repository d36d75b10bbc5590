package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ericfisherdev/graphpilot/internal/domain/graphid"
	"github.com/ericfisherdev/graphpilot/internal/domain/model"
	"github.com/ericfisherdev/graphpilot/internal/domain/port/driven"
)

// Sentinel errors for rejected batch input.
var (
	ErrInvalidCount    = errors.New("repeat count must be at least 1")
	ErrInvalidReaction = errors.New("unknown reaction type")
	ErrEmptyMessage    = errors.New("comment message is empty")
)

// commentDetailLen bounds how much of a comment is kept in the activity log.
const commentDetailLen = 30

// Attempt is the outcome of one repetition within a batch.
type Attempt struct {
	Number    int
	ObjectID  string // Set for actions that create a remote object.
	Err       error  // Remote failure; nil on success.
	RecordErr error  // Activity log write failure after a successful action.
}

// BatchReport summarizes a repeated action.
type BatchReport struct {
	BatchID   string
	Kind      model.ActivityKind
	TargetID  string
	Attempts  []Attempt
	Succeeded int
}

// Failed returns the number of attempts the remote service rejected.
func (r BatchReport) Failed() int {
	return len(r.Attempts) - r.Succeeded
}

// ActionService runs user-requested actions against the Graph API and writes
// one activity record per successful call. Repetitions run sequentially, at
// most one call per delay, and a failed repetition never stops the next one.
type ActionService struct {
	credentials *CredentialService
	client      driven.GraphClient
	activities  driven.ActivityStore
	userID      int64
	delay       time.Duration
}

// NewActionService creates a new ActionService with the required dependencies.
func NewActionService(
	credentials *CredentialService,
	client driven.GraphClient,
	activities driven.ActivityStore,
	userID int64,
	delay time.Duration,
) *ActionService {
	return &ActionService{
		credentials: credentials,
		client:      client,
		activities:  activities,
		userID:      userID,
		delay:       delay,
	}
}

// attemptFunc performs one remote call and returns the created object id (if
// any) and the detail to log.
type attemptFunc func(ctx context.Context, token string) (objectID, detail string, err error)

// ReactToPost reacts count times to the post at postURL.
func (s *ActionService) ReactToPost(ctx context.Context, postURL string, reaction model.ReactionType, count int) (BatchReport, error) {
	targetID, err := graphid.PostID(postURL)
	if err != nil {
		return BatchReport{}, err
	}
	return s.react(ctx, model.TargetPost, targetID, reaction, count)
}

// ReactToComment reacts count times to the comment at commentURL.
func (s *ActionService) ReactToComment(ctx context.Context, commentURL string, reaction model.ReactionType, count int) (BatchReport, error) {
	targetID, err := graphid.CommentID(commentURL)
	if err != nil {
		return BatchReport{}, err
	}
	return s.react(ctx, model.TargetComment, targetID, reaction, count)
}

func (s *ActionService) react(ctx context.Context, kind model.TargetKind, targetID string, reaction model.ReactionType, count int) (BatchReport, error) {
	if !slices.Contains(model.ReactionTypes, reaction) {
		return BatchReport{}, fmt.Errorf("%w: %q", ErrInvalidReaction, reaction)
	}

	return s.run(ctx, kind.ActivityKind(), targetID, count, func(ctx context.Context, token string) (string, string, error) {
		_, err := s.client.React(ctx, token, kind, targetID, reaction)
		return "", string(reaction), err
	})
}

// CommentOnPost posts message count times on the post at postURL. The message
// is sent as given, minus surrounding whitespace.
func (s *ActionService) CommentOnPost(ctx context.Context, postURL, message string, count int) (BatchReport, error) {
	targetID, err := graphid.PostID(postURL)
	if err != nil {
		return BatchReport{}, err
	}

	text := strings.TrimSpace(message)
	if text == "" {
		return BatchReport{}, ErrEmptyMessage
	}

	return s.run(ctx, model.ActivityPostComment, targetID, count, func(ctx context.Context, token string) (string, string, error) {
		created, err := s.client.Comment(ctx, token, targetID, text)
		return created.ID, truncate(text, commentDetailLen), err
	})
}

// Follow subscribes to the profile at profileURL, count times.
func (s *ActionService) Follow(ctx context.Context, profileURL string, count int) (BatchReport, error) {
	targetID, err := graphid.UserID(profileURL)
	if err != nil {
		return BatchReport{}, err
	}

	return s.run(ctx, model.ActivityFollow, targetID, count, func(ctx context.Context, token string) (string, string, error) {
		_, err := s.client.Follow(ctx, token, targetID)
		return "", "", err
	})
}

// Unfollow removes the subscription to the profile at profileURL, count times.
func (s *ActionService) Unfollow(ctx context.Context, profileURL string, count int) (BatchReport, error) {
	targetID, err := graphid.UserID(profileURL)
	if err != nil {
		return BatchReport{}, err
	}

	return s.run(ctx, model.ActivityUnfollow, targetID, count, func(ctx context.Context, token string) (string, string, error) {
		_, err := s.client.Unfollow(ctx, token, targetID)
		return "", "", err
	})
}

// Share shares the post at postURL to the user's feed, count times.
func (s *ActionService) Share(ctx context.Context, postURL string, count int) (BatchReport, error) {
	targetID, err := graphid.PostID(postURL)
	if err != nil {
		return BatchReport{}, err
	}

	return s.run(ctx, model.ActivityShare, targetID, count, func(ctx context.Context, token string) (string, string, error) {
		created, err := s.client.Share(ctx, token, targetID)
		return created.ID, created.ID, err
	})
}

// RecentActivity returns the user's latest activity records, newest first.
func (s *ActionService) RecentActivity(ctx context.Context, limit int) ([]model.ActivityRecord, error) {
	return s.activities.Recent(ctx, s.userID, limit)
}

// run executes attempt count times. The credential is resolved once per
// batch. A cancelled context stops the batch between repetitions and is
// returned alongside the partial report.
func (s *ActionService) run(ctx context.Context, kind model.ActivityKind, targetID string, count int, attempt attemptFunc) (BatchReport, error) {
	if count < 1 {
		return BatchReport{}, fmt.Errorf("%w, got %d", ErrInvalidCount, count)
	}

	cred, ok := s.credentials.Latest(ctx)
	if !ok {
		return BatchReport{}, ErrNoCredential
	}

	report := BatchReport{
		BatchID:  uuid.NewString(),
		Kind:     kind,
		TargetID: targetID,
	}
	log := slog.With("batch", report.BatchID, "kind", kind, "target", targetID)
	limiter := rate.NewLimiter(rate.Every(s.delay), 1)

	for n := 1; n <= count; n++ {
		if err := limiter.Wait(ctx); err != nil {
			log.Warn("batch interrupted", "completed", n-1, "requested", count, "error", err)
			return report, fmt.Errorf("batch interrupted after %d of %d: %w", n-1, count, err)
		}

		objectID, detail, err := attempt(ctx, cred.Token)
		result := Attempt{Number: n, ObjectID: objectID, Err: err}
		if err != nil {
			log.Warn("action failed", "attempt", n, "error", err)
			report.Attempts = append(report.Attempts, result)
			continue
		}

		report.Succeeded++
		log.Info("action succeeded", "attempt", n, "object_id", objectID)

		// The remote side already applied the action, so record it even if
		// the batch is being cancelled.
		_, recErr := s.activities.Record(context.WithoutCancel(ctx), model.ActivityRecord{
			UserID:   s.userID,
			Kind:     kind,
			TargetID: targetID,
			Detail:   detail,
		})
		if recErr != nil {
			log.Error("recording activity failed", "attempt", n, "error", recErr)
			result.RecordErr = recErr
		}
		report.Attempts = append(report.Attempts, result)
	}

	return report, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
