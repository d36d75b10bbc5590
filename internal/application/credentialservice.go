package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
	"github.com/ericfisherdev/graphpilot/internal/domain/port/driven"
)

// Sentinel errors returned by CredentialService.
var (
	// ErrNoCredential indicates no token has been stored for the user yet.
	ErrNoCredential = errors.New("no access token stored; run `graphpilot token set`, or pass --token / set GRAPHPILOT_ACCESS_TOKEN")

	// ErrEmptyToken indicates Save was called with a blank token.
	ErrEmptyToken = errors.New("token is empty")
)

// CredentialService manages the bearer credential of the configured user.
type CredentialService struct {
	store  driven.CredentialStore
	client driven.GraphClient
	userID int64
}

// NewCredentialService creates a new CredentialService for userID. client is
// only used when Save is asked to validate.
func NewCredentialService(store driven.CredentialStore, client driven.GraphClient, userID int64) *CredentialService {
	return &CredentialService{
		store:  store,
		client: client,
		userID: userID,
	}
}

// Save stores token as the user's newest credential. When validate is true
// the token is first checked against the remote profile endpoint and the
// returned profile is non-nil; a rejected token is not stored.
func (s *CredentialService) Save(ctx context.Context, token string, validate bool) (model.Credential, *model.Profile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Credential{}, nil, ErrEmptyToken
	}

	var profile *model.Profile
	if validate {
		p, err := s.client.Me(ctx, token)
		if err != nil {
			return model.Credential{}, nil, fmt.Errorf("token validation failed: %w", err)
		}
		profile = &p
		slog.Info("token validated", "profile_id", p.ID, "profile_name", p.Name)
	}

	cred, err := s.store.Save(ctx, s.userID, token)
	if err != nil {
		return model.Credential{}, nil, err
	}
	slog.Info("credential saved", "user_id", s.userID, "credential_id", cred.ID)
	return cred, profile, nil
}

// Seed makes token the credential in use for this process. It is stored only
// when it differs from the newest stored credential, so seeding the same
// token on every run adds no rows to a durable store.
func (s *CredentialService) Seed(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	if cred, ok := s.Latest(ctx); ok && cred.Token == token {
		return nil
	}

	if _, err := s.store.Save(ctx, s.userID, token); err != nil {
		return fmt.Errorf("seeding access token: %w", err)
	}
	slog.Debug("access token seeded", "user_id", s.userID)
	return nil
}

// Latest returns the user's newest credential. A storage failure is logged
// and reported as "no credential": the user recovers the same way in both
// cases, by storing a token.
func (s *CredentialService) Latest(ctx context.Context) (model.Credential, bool) {
	cred, err := s.store.Latest(ctx, s.userID)
	if err != nil {
		slog.Warn("reading credential failed; treating as absent", "user_id", s.userID, "error", err)
		return model.Credential{}, false
	}
	if cred == nil {
		return model.Credential{}, false
	}
	return *cred, true
}
