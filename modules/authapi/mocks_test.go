package authapi_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/strikerhq/striker-auth/identity"
	"github.com/strikerhq/striker-auth/pkg/tokens"
	"github.com/strikerhq/striker-auth/sessions"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, a identity.Assertion) (*identity.User, error) {
	args := m.Called(ctx, a)
	if u := args.Get(0); u != nil {
		return u.(*identity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResolver) ResolveGuest(ctx context.Context) (*identity.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.(*identity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) Get(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*identity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfiles) Update(ctx context.Context, id uuid.UUID, upd identity.ProfileUpdate) (*identity.User, error) {
	args := m.Called(ctx, id, upd)
	if u := args.Get(0); u != nil {
		return u.(*identity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfiles) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) Issue(userID uuid.UUID, meta tokens.Meta) (string, error) {
	args := m.Called(userID, meta)
	return args.String(0), args.Error(1)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Open(ctx context.Context, userID uuid.UUID, coords sessions.Coordinates) (*sessions.Session, error) {
	args := m.Called(ctx, userID, coords)
	if s := args.Get(0); s != nil {
		return s.(*sessions.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessions) Close(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSessions) ForUser(ctx context.Context, userID uuid.UUID) ([]sessions.Session, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.([]sessions.Session), args.Error(1)
	}
	return nil, args.Error(1)
}
