package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/graphpilot/internal/adapter/driven/memory"
	"github.com/ericfisherdev/graphpilot/internal/application"
	"github.com/ericfisherdev/graphpilot/internal/domain/model"
	"github.com/ericfisherdev/graphpilot/internal/domain/port/driven"
)

func TestCredentialService_SaveThenLatest(t *testing.T) {
	store := memory.NewStore()
	client := &mockGraphClient{}
	svc := application.NewCredentialService(store, client, 1)
	ctx := context.Background()

	_, ok := svc.Latest(ctx)
	assert.False(t, ok, "no credential before the first save")

	cred, profile, err := svc.Save(ctx, "  TOKEN_A \n", false)
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.Equal(t, "TOKEN_A", cred.Token)
	assert.Empty(t, client.recorded(), "no validation call without --validate")

	_, _, err = svc.Save(ctx, "TOKEN_B", false)
	require.NoError(t, err)

	latest, ok := svc.Latest(ctx)
	require.True(t, ok)
	assert.Equal(t, "TOKEN_B", latest.Token)
}

func TestCredentialService_SaveRejectsEmptyToken(t *testing.T) {
	svc := application.NewCredentialService(memory.NewStore(), &mockGraphClient{}, 1)

	_, _, err := svc.Save(context.Background(), "   ", false)
	assert.ErrorIs(t, err, application.ErrEmptyToken)
}

func TestCredentialService_SaveWithValidation(t *testing.T) {
	store := memory.NewStore()
	client := &mockGraphClient{}
	svc := application.NewCredentialService(store, client, 1)

	cred, profile, err := svc.Save(context.Background(), "TOK", true)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "42", profile.ID)
	assert.Equal(t, "TOK", cred.Token)

	calls := client.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "me", calls[0].Method)
	assert.Equal(t, "TOK", calls[0].Token)
}

func TestCredentialService_RejectedTokenIsNotStored(t *testing.T) {
	store := memory.NewStore()
	client := &mockGraphClient{
		me: func(string) (model.Profile, error) {
			return model.Profile{}, &driven.RemoteError{StatusCode: 401, Code: 190, Message: "Invalid OAuth access token."}
		},
	}
	svc := application.NewCredentialService(store, client, 1)

	_, _, err := svc.Save(context.Background(), "BAD", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrRemoteRejected)

	_, ok := svc.Latest(context.Background())
	assert.False(t, ok)
}

func TestCredentialService_LatestTreatsStorageFailureAsAbsent(t *testing.T) {
	storeErr := fmt.Errorf("latest credential: %w: %w", driven.ErrStorageUnavailable, errors.New("disk gone"))
	svc := application.NewCredentialService(failingCredentialStore{err: storeErr}, &mockGraphClient{}, 1)

	_, ok := svc.Latest(context.Background())
	assert.False(t, ok)
}

func TestCredentialService_SavePropagatesStorageFailure(t *testing.T) {
	storeErr := fmt.Errorf("save credential: %w: %w", driven.ErrStorageUnavailable, errors.New("disk gone"))
	svc := application.NewCredentialService(failingCredentialStore{err: storeErr}, &mockGraphClient{}, 1)

	_, _, err := svc.Save(context.Background(), "TOK", false)
	assert.ErrorIs(t, err, driven.ErrStorageUnavailable)
}

// countingCredentialStore counts Save calls on top of a real store.
type countingCredentialStore struct {
	driven.CredentialStore
	saves int
}

func (c *countingCredentialStore) Save(ctx context.Context, userID int64, token string) (model.Credential, error) {
	c.saves++
	return c.CredentialStore.Save(ctx, userID, token)
}

func TestCredentialService_SeedStoresOnlyChangedTokens(t *testing.T) {
	store := &countingCredentialStore{CredentialStore: memory.NewStore()}
	client := &mockGraphClient{}
	svc := application.NewCredentialService(store, client, 1)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, " SEEDED \n"))
	require.NoError(t, svc.Seed(ctx, "SEEDED"))
	assert.Equal(t, 1, store.saves, "re-seeding the same token adds no row")

	cred, ok := svc.Latest(ctx)
	require.True(t, ok)
	assert.Equal(t, "SEEDED", cred.Token)

	require.NoError(t, svc.Seed(ctx, "ROTATED"))
	assert.Equal(t, 2, store.saves)
	cred, ok = svc.Latest(ctx)
	require.True(t, ok)
	assert.Equal(t, "ROTATED", cred.Token)

	assert.Empty(t, client.recorded(), "seeding never validates remotely")
}

func TestCredentialService_SeedRejectsEmptyToken(t *testing.T) {
	svc := application.NewCredentialService(memory.NewStore(), &mockGraphClient{}, 1)

	assert.ErrorIs(t, svc.Seed(context.Background(), "  "), application.ErrEmptyToken)
}
