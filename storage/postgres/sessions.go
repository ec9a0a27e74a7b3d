package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/strikerhq/striker-auth/sessions"
)

func (s *Store) CreateSession(ctx context.Context, session *sessions.Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO login_sessions (id, user_id, login_at, logged_out_at, active, playing, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		session.ID, session.UserID, session.LoginAt, session.LoggedOutAt,
		session.Active, session.Playing, session.Latitude, session.Longitude,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *Store) CloseSession(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE login_sessions
		SET active = false, playing = false, logged_out_at = $2
		WHERE id = $1 AND active`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sessions.ErrSessionNotFound
	}
	return nil
}

func (s *Store) ListUserSessions(ctx context.Context, userID uuid.UUID) ([]sessions.Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, login_at, logged_out_at, active, playing, latitude, longitude
		FROM login_sessions
		WHERE user_id = $1
		ORDER BY login_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var list []sessions.Session
	for rows.Next() {
		var s sessions.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.LoginAt, &s.LoggedOutAt,
			&s.Active, &s.Playing, &s.Latitude, &s.Longitude); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return list, nil
}
