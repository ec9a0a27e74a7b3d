package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/strikerhq/striker-auth/pkg/logger"
	"github.com/strikerhq/striker-auth/pkg/username"
)

// Resolver implements the find-or-create identity resolution algorithm.
type Resolver struct {
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver constructs a Resolver over the given storage.
func NewResolver(storage Storage, opts ...Option) *Resolver {
	r := &Resolver{
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds or creates the account behind a provider identity assertion.
//
// An existing (provider, subject id) link wins unconditionally: the owning
// account is refreshed and returned, and this path never creates anything.
// Without a link, the assertion's email decides: a blank email is rejected,
// an email owned by another account is a conflict, and a free email creates
// a fresh account plus its link.
func (r *Resolver) Resolve(ctx context.Context, a Assertion) (*User, error) {
	switch a.Provider {
	case ProviderGoogle, ProviderFacebook, ProviderLocal:
	default:
		return nil, ErrInvalidProvider
	}
	if strings.TrimSpace(a.SubjectID) == "" {
		return nil, ErrSubjectRequired
	}
	a.Email = normalizeEmail(a.Email)

	link, err := r.storage.GetLink(ctx, a.Provider, a.SubjectID)
	switch {
	case err == nil:
		return r.refreshLinked(ctx, link, a)
	case errors.Is(err, ErrLinkNotFound):
		return r.createLinked(ctx, a)
	default:
		return nil, fmt.Errorf("lookup provider link: %w", err)
	}
}

// refreshLinked handles a returning identity: profile fields are filled in
// only where they are currently blank, so a provider sending less data than
// before never erases anything. Pictures are the exception and track the
// provider's latest value.
func (r *Resolver) refreshLinked(ctx context.Context, link *ProviderLink, a Assertion) (*User, error) {
	user, err := r.storage.GetUserByID(ctx, link.UserID)
	if err != nil {
		return nil, fmt.Errorf("load linked user: %w", err)
	}

	if user.Username == "" {
		name, err := username.Allocate(ctx, seeds(a), r.storage.UsernameExists)
		if err != nil {
			return nil, fmt.Errorf("allocate username: %w", err)
		}
		user.Username = name
	}
	if user.DisplayName == "" && a.DisplayName != "" {
		user.DisplayName = a.DisplayName
	}
	if a.PictureURL != "" {
		user.PictureURL = a.PictureURL
	}
	user.LastLoginAt = r.now()

	if err := r.storage.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update linked user: %w", err)
	}

	r.logger.InfoContext(ctx, "resolved existing identity",
		logger.Component("identity"),
		logger.UserID(user.ID.String()),
		logger.Provider(string(a.Provider)),
	)
	return user, nil
}

// createLinked creates a fresh account and provider link. The database
// constraints are the real arbiters here: a duplicate username retries
// allocation once, a duplicate email or link surfaces as a conflict with a
// compensating delete where needed.
func (r *Resolver) createLinked(ctx context.Context, a Assertion) (*User, error) {
	if a.Email == "" {
		return nil, ErrEmailRequired
	}

	owner, err := r.storage.GetUserByEmail(ctx, a.Email)
	if err == nil && owner != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email owner: %w", err)
	}

	now := r.now()
	user := &User{
		ID:          uuid.New(),
		Email:       a.Email,
		DisplayName: a.DisplayName,
		PictureURL:  a.PictureURL,
		Role:        RoleUser,
		Active:      true,
		LastLoginAt: now,
		CreatedAt:   now,
	}

	for attempt := 0; ; attempt++ {
		name, err := username.Allocate(ctx, seeds(a), r.storage.UsernameExists)
		if err != nil {
			return nil, fmt.Errorf("allocate username: %w", err)
		}
		user.Username = name

		err = r.storage.CreateUser(ctx, user)
		if err == nil {
			break
		}
		// Lost a username race: the probe said free but the insert hit the
		// unique index. One fresh allocation before giving up.
		if errors.Is(err, ErrUsernameTaken) && attempt == 0 {
			continue
		}
		if IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := r.createLink(ctx, user.ID, a.Provider, a.SubjectID); err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "created account for new identity",
		logger.Component("identity"),
		logger.UserID(user.ID.String()),
		logger.Provider(string(a.Provider)),
	)
	return user, nil
}

// ResolveGuest creates a throwaway guest account with a self-referential
// provider link. No email, no conflict checks; the username is derived from
// the fresh account id.
func (r *Resolver) ResolveGuest(ctx context.Context) (*User, error) {
	now := r.now()
	id := uuid.New()
	user := &User{
		ID:          id,
		Username:    "Guest-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8]),
		Role:        RoleGuest,
		Active:      true,
		LastLoginAt: now,
		CreatedAt:   now,
	}

	if err := r.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create guest user: %w", err)
	}

	if err := r.createLink(ctx, id, ProviderGuest, id.String()); err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "created guest account",
		logger.Component("identity"),
		logger.UserID(id.String()),
	)
	return user, nil
}

// createLink persists the provider link, deleting the just-created user when
// the link insert fails so a half-linked account never survives.
func (r *Resolver) createLink(ctx context.Context, userID uuid.UUID, provider Provider, subjectID string) error {
	err := r.storage.CreateLink(ctx, &ProviderLink{
		ID:        uuid.New(),
		UserID:    userID,
		Provider:  provider,
		SubjectID: subjectID,
		CreatedAt: r.now(),
	})
	if err == nil {
		return nil
	}

	if delErr := r.storage.DeleteUser(ctx, userID); delErr != nil {
		r.logger.ErrorContext(ctx, "failed to clean up user after link failure",
			logger.Component("identity"),
			logger.UserID(userID.String()),
			logger.Error(delErr),
		)
	}

	if errors.Is(err, ErrLinkExists) {
		return ErrLinkExists
	}
	return fmt.Errorf("create provider link: %w", err)
}

// seeds returns the username seed candidates in priority order.
func seeds(a Assertion) []string {
	return []string{a.Username, a.DisplayName, emailLocalPart(a.Email)}
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

var emailDotRun = regexp.MustCompile(`\.{2,}`)

// normalizeEmail lowercases, trims and collapses dot runs in the local part.
// Invalid shapes pass through untouched; the resolver treats email as an
// opaque unique key, not a deliverable address.
func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	local = strings.Trim(emailDotRun.ReplaceAllString(local, "."), ".")
	return local + "@" + domain
}
