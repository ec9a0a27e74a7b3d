package authapi_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/strikerhq/striker-auth/httpx"
	"github.com/strikerhq/striker-auth/identity"
	"github.com/strikerhq/striker-auth/modules/authapi"
	"github.com/strikerhq/striker-auth/pkg/tokens"
	"github.com/strikerhq/striker-auth/sessions"
)

type fixture struct {
	resolver *mockResolver
	profiles *mockProfiles
	issuer   *mockIssuer
	sessions *mockSessions
	router   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		resolver: &mockResolver{},
		profiles: &mockProfiles{},
		issuer:   &mockIssuer{},
		sessions: &mockSessions{},
	}
	f.router = authapi.Router(authapi.Services{
		Resolver: f.resolver,
		Profiles: f.profiles,
		Issuer:   f.issuer,
		Sessions: f.sessions,
	})

	t.Cleanup(func() {
		f.resolver.AssertExpectations(t)
		f.profiles.AssertExpectations(t)
		f.issuer.AssertExpectations(t)
		f.sessions.AssertExpectations(t)
	})
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()

	var resp struct {
		Code string          `json:"code"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func testUser() *identity.User {
	return &identity.User{
		ID:          uuid.New(),
		Email:       "john.doe@example.com",
		Username:    "john.doe",
		DisplayName: "John Doe",
		Role:        identity.RoleUser,
		Active:      true,
	}
}

func TestSocialLogin(t *testing.T) {
	t.Parallel()

	t.Run("success issues token and opens session", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		user := testUser()
		sessionID := uuid.New()

		f.resolver.On("Resolve", mock.Anything, identity.Assertion{
			Provider:    identity.ProviderGoogle,
			SubjectID:   "goog-123",
			Email:       "john.doe@example.com",
			DisplayName: "John Doe",
		}).Return(user, nil)
		f.issuer.On("Issue", user.ID, tokens.Meta{
			Provider: "GOOGLE",
			Email:    user.Email,
			Username: user.Username,
		}).Return("signed.jwt", nil)
		f.sessions.On("Open", mock.Anything, user.ID, sessions.Coordinates{Latitude: "52.52", Longitude: "13.40"}).
			Return(&sessions.Session{ID: sessionID, UserID: user.ID, Active: true}, nil)

		rec := f.do(http.MethodPost, "/auth/social", `{
			"provider":"google",
			"subjectId":"goog-123",
			"email":"john.doe@example.com",
			"displayName":"John Doe",
			"latitude":"52.52",
			"longitude":"13.40"
		}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			UserID      uuid.UUID `json:"userId"`
			Username    string    `json:"username"`
			Provider    string    `json:"provider"`
			SessionID   string    `json:"sessionId"`
			AccessToken string    `json:"accessToken"`
		}
		decodeData(t, rec, &got)
		assert.Equal(t, user.ID, got.UserID)
		assert.Equal(t, "john.doe", got.Username)
		assert.Equal(t, "GOOGLE", got.Provider)
		assert.Equal(t, sessionID.String(), got.SessionID)
		assert.Equal(t, "signed.jwt", got.AccessToken)
	})

	t.Run("login survives session log failure", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		user := testUser()

		f.resolver.On("Resolve", mock.Anything, mock.Anything).Return(user, nil)
		f.issuer.On("Issue", user.ID, mock.Anything).Return("signed.jwt", nil)
		f.sessions.On("Open", mock.Anything, user.ID, mock.Anything).
			Return(nil, errors.New("pool exhausted"))

		rec := f.do(http.MethodPost, "/auth/social", `{"provider":"FACEBOOK","subjectId":"fb-9","email":"a@b.com"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			SessionID   string `json:"sessionId"`
			AccessToken string `json:"accessToken"`
		}
		decodeData(t, rec, &got)
		assert.Empty(t, got.SessionID)
		assert.Equal(t, "signed.jwt", got.AccessToken)
	})

	t.Run("unknown provider is a 400", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.resolver.On("Resolve", mock.Anything, mock.Anything).
			Return(nil, identity.ErrInvalidProvider)

		rec := f.do(http.MethodPost, "/auth/social", `{"provider":"myspace","subjectId":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("email owned by another account is a 409", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.resolver.On("Resolve", mock.Anything, mock.Anything).
			Return(nil, identity.ErrEmailTaken)

		rec := f.do(http.MethodPost, "/auth/social", `{"provider":"GOOGLE","subjectId":"x","email":"a@b.com"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(http.MethodPost, "/auth/social", `{"provider":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("signing failure is a 500", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		user := testUser()
		f.resolver.On("Resolve", mock.Anything, mock.Anything).Return(user, nil)
		f.issuer.On("Issue", user.ID, mock.Anything).Return("", tokens.ErrSigningFailed)

		rec := f.do(http.MethodPost, "/auth/social", `{"provider":"GOOGLE","subjectId":"x","email":"a@b.com"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGuestLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	guest := &identity.User{
		ID:       uuid.New(),
		Username: "Guest-1A2B3C4D",
		Role:     identity.RoleGuest,
		Active:   true,
	}
	sessionID := uuid.New()

	f.resolver.On("ResolveGuest", mock.Anything).Return(guest, nil)
	f.issuer.On("Issue", guest.ID, tokens.Meta{
		Provider: "GUEST",
		Username: guest.Username,
		IsGuest:  true,
	}).Return("guest.jwt", nil)
	f.sessions.On("Open", mock.Anything, guest.ID, sessions.Coordinates{}).
		Return(&sessions.Session{ID: sessionID, UserID: guest.ID, Active: true}, nil)

	rec := f.do(http.MethodPost, "/auth/guest", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Username    string `json:"username"`
		Provider    string `json:"provider"`
		Role        string `json:"role"`
		IsGuest     bool   `json:"isGuest"`
		Email       string `json:"email"`
		AccessToken string `json:"accessToken"`
	}
	decodeData(t, rec, &got)
	assert.Equal(t, "Guest-1A2B3C4D", got.Username)
	assert.Equal(t, "GUEST", got.Provider)
	assert.Equal(t, "GUEST", got.Role)
	assert.True(t, got.IsGuest)
	assert.Empty(t, got.Email)
	assert.Equal(t, "guest.jwt", got.AccessToken)
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		user := testUser()
		f.profiles.On("Get", mock.Anything, user.ID).Return(user, nil)

		rec := f.do(http.MethodGet, "/users/"+user.ID.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			UserID   uuid.UUID `json:"userId"`
			Username string    `json:"username"`
			Active   bool      `json:"active"`
		}
		decodeData(t, rec, &got)
		assert.Equal(t, user.ID, got.UserID)
		assert.Equal(t, user.Username, got.Username)
		assert.True(t, got.Active)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		id := uuid.New()
		f.profiles.On("Get", mock.Anything, id).Return(nil, identity.ErrUserNotFound)

		rec := f.do(http.MethodGet, "/users/"+id.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-uuid path id is a 400", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(http.MethodGet, "/users/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	t.Run("applies the edit", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		user := testUser()
		user.DisplayName = "Johnny"

		f.profiles.On("Update", mock.Anything, user.ID, identity.ProfileUpdate{
			DisplayName: "Johnny",
		}).Return(user, nil)

		rec := f.do(http.MethodPut, "/users/"+user.ID.String(), `{"displayName":"Johnny"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			DisplayName string `json:"displayName"`
		}
		decodeData(t, rec, &got)
		assert.Equal(t, "Johnny", got.DisplayName)
	})

	t.Run("username collision is a 409", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		id := uuid.New()
		f.profiles.On("Update", mock.Anything, id, mock.Anything).
			Return(nil, identity.ErrUsernameTaken)

		rec := f.do(http.MethodPut, "/users/"+id.String(), `{"username":"taken"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := uuid.New()
	f.profiles.On("Deactivate", mock.Anything, id).Return(nil)

	rec := f.do(http.MethodDelete, "/users/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp httpx.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user_deactivated", resp.Code)
}

func TestListSessions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()
	loggedOut := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	list := []sessions.Session{
		{ID: uuid.New(), UserID: userID, LoginAt: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC), Active: true},
		{ID: uuid.New(), UserID: userID, LoginAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), LoggedOutAt: &loggedOut},
	}
	f.sessions.On("ForUser", mock.Anything, userID).Return(list, nil)

	rec := f.do(http.MethodGet, "/users/"+userID.String()+"/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []struct {
		LoginAt     string `json:"loginAt"`
		LoggedOutAt string `json:"loggedOutAt"`
		Active      bool   `json:"active"`
	}
	decodeData(t, rec, &got)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-08-02T09:00:00Z", got[0].LoginAt)
	assert.Empty(t, got[0].LoggedOutAt)
	assert.True(t, got[0].Active)
	assert.Equal(t, "2026-08-01T12:30:00Z", got[1].LoggedOutAt)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("closes the session", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		id := uuid.New()
		f.sessions.On("Close", mock.Anything, id).Return(nil)

		rec := f.do(http.MethodPost, "/sessions/"+id.String()+"/logout", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("already closed session is a 404", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		id := uuid.New()
		f.sessions.On("Close", mock.Anything, id).Return(sessions.ErrSessionNotFound)

		rec := f.do(http.MethodPost, "/sessions/"+id.String()+"/logout", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
