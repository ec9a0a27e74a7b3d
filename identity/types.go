package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the account role assigned at creation.
type Role string

const (
	RoleUser  Role = "USER"
	RoleGuest Role = "GUEST"
	RoleAdmin Role = "ADMIN"
)

// Provider identifies the external identity source.
type Provider string

const (
	ProviderGoogle   Provider = "GOOGLE"
	ProviderFacebook Provider = "FACEBOOK"
	ProviderLocal    Provider = "LOCAL"
	ProviderGuest    Provider = "GUEST"
)

// User is a durable user account. ID is assigned at creation and never
// reused; Email and Username are unique across all accounts.
type User struct {
	ID          uuid.UUID
	Email       string // empty for guests
	Username    string
	DisplayName string
	PictureURL  string
	Role        Role
	Active      bool
	LastLoginAt time.Time
	CreatedAt   time.Time
}

// ProviderLink maps an external identity to exactly one account. A
// (provider, subject id) pair is created once and never reassigned.
type ProviderLink struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Provider  Provider
	SubjectID string
	CreatedAt time.Time
}

// Assertion is the validated identity tuple handed over after upstream
// provider-token verification.
type Assertion struct {
	Provider    Provider
	SubjectID   string
	Email       string
	Username    string // provider-suggested username, optional
	DisplayName string
	PictureURL  string
}

// Storage is the persistence surface the resolver needs. Implementations
// must enforce uniqueness of email, username and (provider, subject id) with
// constraints and report lost races via the conflict sentinels; the
// resolver's own lookups are only an optimization.
type Storage interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UsernameExists(ctx context.Context, name string) (bool, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	GetLink(ctx context.Context, provider Provider, subjectID string) (*ProviderLink, error)
	CreateLink(ctx context.Context, link *ProviderLink) error
}
