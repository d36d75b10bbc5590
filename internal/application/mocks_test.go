package application_test

import (
	"context"
	"sync"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
	"github.com/ericfisherdev/graphpilot/internal/domain/port/driven"
)

// --- Mock implementations ---

type graphCall struct {
	Method   string
	Token    string
	TargetID string
	Value    string
}

// mockGraphClient records every call. Hooks left nil succeed.
type mockGraphClient struct {
	mu    sync.Mutex
	calls []graphCall

	react    func(n int) (model.Ack, error)
	comment  func(n int) (model.CreatedObject, error)
	follow   func(n int) (model.Ack, error)
	unfollow func(n int) (model.Ack, error)
	share    func(n int) (model.CreatedObject, error)
	me       func(token string) (model.Profile, error)
}

var _ driven.GraphClient = (*mockGraphClient)(nil)

func (m *mockGraphClient) record(c graphCall) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	return len(m.calls)
}

func (m *mockGraphClient) recorded() []graphCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]graphCall(nil), m.calls...)
}

func (m *mockGraphClient) React(_ context.Context, token string, kind model.TargetKind, targetID string, reaction model.ReactionType) (model.Ack, error) {
	n := m.record(graphCall{Method: "react:" + string(kind), Token: token, TargetID: targetID, Value: string(reaction)})
	if m.react != nil {
		return m.react(n)
	}
	return model.Ack{Success: true}, nil
}

func (m *mockGraphClient) Comment(_ context.Context, token, postID, message string) (model.CreatedObject, error) {
	n := m.record(graphCall{Method: "comment", Token: token, TargetID: postID, Value: message})
	if m.comment != nil {
		return m.comment(n)
	}
	return model.CreatedObject{ID: "c1"}, nil
}

func (m *mockGraphClient) Follow(_ context.Context, token, userID string) (model.Ack, error) {
	n := m.record(graphCall{Method: "follow", Token: token, TargetID: userID})
	if m.follow != nil {
		return m.follow(n)
	}
	return model.Ack{Success: true}, nil
}

func (m *mockGraphClient) Unfollow(_ context.Context, token, userID string) (model.Ack, error) {
	n := m.record(graphCall{Method: "unfollow", Token: token, TargetID: userID})
	if m.unfollow != nil {
		return m.unfollow(n)
	}
	return model.Ack{Success: true}, nil
}

func (m *mockGraphClient) Share(_ context.Context, token, postID string) (model.CreatedObject, error) {
	n := m.record(graphCall{Method: "share", Token: token, TargetID: postID})
	if m.share != nil {
		return m.share(n)
	}
	return model.CreatedObject{ID: "s1"}, nil
}

func (m *mockGraphClient) Me(_ context.Context, token string) (model.Profile, error) {
	m.record(graphCall{Method: "me", Token: token})
	if m.me != nil {
		return m.me(token)
	}
	return model.Profile{ID: "42", Name: "Test User"}, nil
}

// failingCredentialStore fails every call with err.
type failingCredentialStore struct {
	err error
}

func (s failingCredentialStore) Save(context.Context, int64, string) (model.Credential, error) {
	return model.Credential{}, s.err
}

func (s failingCredentialStore) Latest(context.Context, int64) (*model.Credential, error) {
	return nil, s.err
}

// failingActivityStore rejects writes but still serves reads.
type failingActivityStore struct {
	err error
}

func (s failingActivityStore) Record(context.Context, model.ActivityRecord) (model.ActivityRecord, error) {
	return model.ActivityRecord{}, s.err
}

func (s failingActivityStore) Recent(context.Context, int64, int) ([]model.ActivityRecord, error) {
	return []model.ActivityRecord{}, nil
}
