package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/strikerhq/striker-auth/identity"
	"github.com/strikerhq/striker-auth/pkg/pg"
)

const userColumns = `id, COALESCE(email, ''), username, display_name, picture_url, role, active, last_login_at, created_at`

func scanUser(row interface{ Scan(...any) error }) (*identity.User, error) {
	var u identity.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.PictureURL, &role, &u.Active, &u.LastLoginAt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = identity.Role(role)
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*identity.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

func (s *Store) UsernameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

func (s *Store) CreateUser(ctx context.Context, user *identity.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, username, display_name, picture_url, role, active, last_login_at, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Email, user.Username, user.DisplayName, user.PictureURL,
		string(user.Role), user.Active, user.LastLoginAt, user.CreatedAt,
	)
	if err != nil {
		if err := translateUnique(err); identity.IsConflict(err) {
			return err
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, user *identity.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET email = NULLIF($2, ''), username = $3, display_name = $4, picture_url = $5,
		    role = $6, active = $7, last_login_at = $8
		WHERE id = $1`,
		user.ID, user.Email, user.Username, user.DisplayName, user.PictureURL,
		string(user.Role), user.Active, user.LastLoginAt,
	)
	if err != nil {
		if err := translateUnique(err); identity.IsConflict(err) {
			return err
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}
