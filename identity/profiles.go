package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ProfileUpdate carries an explicit profile edit. Blank fields are skipped;
// this endpoint never clears data.
type ProfileUpdate struct {
	Email       string
	Username    string
	DisplayName string
	PictureURL  string
}

// Profiles is the plain account read/update surface behind the user CRUD
// endpoints. Unlike the resolver it honors explicit username changes.
type Profiles struct {
	storage Storage
}

// NewProfiles constructs a Profiles service.
func NewProfiles(storage Storage) *Profiles {
	return &Profiles{storage: storage}
}

// Get loads an account by id.
func (p *Profiles) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := p.storage.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update applies the non-blank fields of upd to the account. Email and
// username changes are checked for uniqueness first, but the store's unique
// indexes remain the final authority and their violations surface as the
// same conflict errors.
func (p *Profiles) Update(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*User, error) {
	user, err := p.storage.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if email := normalizeEmail(upd.Email); email != "" && email != user.Email {
		_, err := p.storage.GetUserByEmail(ctx, email)
		if err == nil {
			return nil, ErrEmailTaken
		}
		if !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		user.Email = email
	}

	if name := strings.TrimSpace(upd.Username); name != "" && name != user.Username {
		taken, err := p.storage.UsernameExists(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = name
	}

	if v := strings.TrimSpace(upd.DisplayName); v != "" {
		user.DisplayName = v
	}
	if v := strings.TrimSpace(upd.PictureURL); v != "" {
		user.PictureURL = v
	}

	if err := p.storage.UpdateUser(ctx, user); err != nil {
		if IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Deactivate soft-deletes an account. Provider links stay in place so the
// identity cannot be re-registered as a fresh account by accident.
func (p *Profiles) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := p.storage.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	user.Active = false
	if err := p.storage.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}
