package sessions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/strikerhq/striker-auth/pkg/logger"
)

// Session is one login event for a user.
type Session struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	LoginAt     time.Time
	LoggedOutAt *time.Time
	Active      bool
	Playing     bool
	Latitude    string
	Longitude   string
}

// Coordinates is the optional client location reported at login.
type Coordinates struct {
	Latitude  string
	Longitude string
}

// Storage is the persistence surface for the session log.
type Storage interface {
	CreateSession(ctx context.Context, s *Session) error
	CloseSession(ctx context.Context, id uuid.UUID, at time.Time) error
	ListUserSessions(ctx context.Context, userID uuid.UUID) ([]Session, error)
}

// Service records and closes login sessions.
type Service struct {
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a session Service.
func New(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open records a new active session for the user.
func (s *Service) Open(ctx context.Context, userID uuid.UUID, coords Coordinates) (*Session, error) {
	session := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		LoginAt:   s.now(),
		Active:    true,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	}

	if err := s.storage.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "session opened",
		logger.Component("sessions"),
		logger.UserID(userID.String()),
		logger.SessionID(session.ID.String()),
	)
	return session, nil
}

// Close marks a session as logged out. Closing an unknown or already closed
// session returns ErrSessionNotFound.
func (s *Service) Close(ctx context.Context, id uuid.UUID) error {
	if err := s.storage.CloseSession(ctx, id, s.now()); err != nil {
		return fmt.Errorf("close session: %w", err)
	}

	s.logger.InfoContext(ctx, "session closed",
		logger.Component("sessions"),
		logger.SessionID(id.String()),
	)
	return nil
}

// ForUser lists all sessions for a user, newest first.
func (s *Service) ForUser(ctx context.Context, userID uuid.UUID) ([]Session, error) {
	list, err := s.storage.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return list, nil
}
