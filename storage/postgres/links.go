package postgres

import (
	"context"
	"fmt"

	"github.com/strikerhq/striker-auth/identity"
	"github.com/strikerhq/striker-auth/pkg/pg"
)

func (s *Store) GetLink(ctx context.Context, provider identity.Provider, subjectID string) (*identity.ProviderLink, error) {
	var link identity.ProviderLink
	var providerName string
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, provider, subject_id, created_at
		FROM provider_links
		WHERE provider = $1 AND subject_id = $2`,
		string(provider), subjectID,
	).Scan(&link.ID, &link.UserID, &providerName, &link.SubjectID, &link.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, identity.ErrLinkNotFound
		}
		return nil, fmt.Errorf("query provider link: %w", err)
	}
	link.Provider = identity.Provider(providerName)
	return &link, nil
}

func (s *Store) CreateLink(ctx context.Context, link *identity.ProviderLink) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO provider_links (id, user_id, provider, subject_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		link.ID, link.UserID, string(link.Provider), link.SubjectID, link.CreatedAt,
	)
	if err != nil {
		if err := translateUnique(err); identity.IsConflict(err) {
			return err
		}
		return fmt.Errorf("insert provider link: %w", err)
	}
	return nil
}
