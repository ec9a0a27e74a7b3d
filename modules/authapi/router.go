// Package authapi exposes the login, user and session endpoints as a chi
// router. Handlers stay thin: decode, call the service, map the result
// through httpx.
package authapi

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/strikerhq/striker-auth/identity"
	"github.com/strikerhq/striker-auth/pkg/tokens"
	"github.com/strikerhq/striker-auth/sessions"
)

// Resolver is the identity resolution surface the login endpoints need.
type Resolver interface {
	Resolve(ctx context.Context, a identity.Assertion) (*identity.User, error)
	ResolveGuest(ctx context.Context) (*identity.User, error)
}

// ProfileManager is the account CRUD surface.
type ProfileManager interface {
	Get(ctx context.Context, id uuid.UUID) (*identity.User, error)
	Update(ctx context.Context, id uuid.UUID, upd identity.ProfileUpdate) (*identity.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// TokenIssuer mints an access token for a resolved user.
type TokenIssuer interface {
	Issue(userID uuid.UUID, meta tokens.Meta) (string, error)
}

// SessionLog records login and logout events.
type SessionLog interface {
	Open(ctx context.Context, userID uuid.UUID, coords sessions.Coordinates) (*sessions.Session, error)
	Close(ctx context.Context, id uuid.UUID) error
	ForUser(ctx context.Context, userID uuid.UUID) ([]sessions.Session, error)
}

// Services bundles the collaborators the auth API mounts.
type Services struct {
	Resolver Resolver
	Profiles ProfileManager
	Issuer   TokenIssuer
	Sessions SessionLog
	Logger   *slog.Logger
}

// Router builds the auth API: login endpoints, user profile CRUD and the
// session log.
func Router(svc Services) chi.Router {
	if svc.Logger == nil {
		svc.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &handlers{svc: svc}

	r := chi.NewRouter()

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/social", h.socialLogin)
		auth.Post("/guest", h.guestLogin)
	})

	r.Route("/users/{id}", func(users chi.Router) {
		users.Get("/", h.getUser)
		users.Put("/", h.updateUser)
		users.Delete("/", h.deleteUser)
		users.Get("/sessions", h.listSessions)
	})

	r.Post("/sessions/{id}/logout", h.logout)

	return r
}
