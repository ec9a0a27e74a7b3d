package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strikerhq/striker-auth/identity"
	"github.com/strikerhq/striker-auth/pkg/pg"
)

// Store implements identity.Storage and sessions.Storage.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a Store over an established pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Constraint names from the migrations; translateUnique keys off them.
const (
	constraintUsersEmail   = "users_email_key"
	constraintUsersName    = "users_username_key"
	constraintProviderLink = "provider_links_provider_subject_key"
)

// translateUnique maps a 23505 to the corresponding domain conflict. Other
// errors pass through unchanged.
func translateUnique(err error) error {
	if !pg.IsDuplicateKeyError(err) {
		return err
	}
	switch pg.ConstraintName(err) {
	case constraintUsersEmail:
		return identity.ErrEmailTaken
	case constraintUsersName:
		return identity.ErrUsernameTaken
	case constraintProviderLink:
		return identity.ErrLinkExists
	}
	return err
}
