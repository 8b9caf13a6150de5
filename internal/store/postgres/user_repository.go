package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/capitalninja/ninja/core/user"
	"github.com/jmoiron/sqlx"
)

// UserRepository is a type that manages profiles in the primary database
type UserRepository struct {
	client *Client
}

// Upsert inserts the profile or refreshes its e-mail and name when the id
// already exists. Empty fields never overwrite stored values.
func (r *UserRepository) Upsert(ctx context.Context, ud *user.User) (string, error) {
	if err := ud.Validate(); err != nil {
		return "", err
	}
	if !isValidUUID(ud.ID) {
		return "", user.InvalidError{ID: ud.ID}
	}

	um := newUserModel(ud)

	var userID string
	err := r.client.QueryFn(ctx, func(conn *sqlx.Conn) error {
		return conn.QueryRowxContext(ctx, `
				INSERT INTO profiles (id, email, full_name) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET
					email = COALESCE(EXCLUDED.email, profiles.email),
					full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
					updated_at = now()
				RETURNING id
		`, um.ID, um.Email, um.FullName).Scan(&userID)
	})
	if err != nil {
		err = checkPostgresError(err)
		if errors.Is(err, errDuplicateKey) {
			return "", fmt.Errorf("email %q belongs to another profile: %w", ud.Email, err)
		}
		return "", err
	}

	if userID == "" {
		return "", fmt.Errorf("error profile id is empty from DB")
	}
	return userID, nil
}

// GetByEmail retrieves the profile with the given e-mail
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var um UserModel
	if err := r.client.GetContext(ctx, &um, `
		SELECT * FROM profiles WHERE lower(email) = lower($1)
	`, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.NotFoundError{Email: email}
		}
		return user.User{}, err
	}
	return um.toUser(), nil
}

// GetByID retrieves the profile given its id
func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	if !isValidUUID(id) {
		return user.User{}, user.InvalidError{ID: id}
	}

	var um UserModel
	if err := r.client.GetContext(ctx, &um, `
		SELECT * FROM profiles WHERE id = $1
	`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.NotFoundError{ID: id}
		}
		return user.User{}, err
	}
	return um.toUser(), nil
}

// NewUserRepository initializes user repository clients
func NewUserRepository(c *Client) (*UserRepository, error) {
	if c == nil {
		return nil, errNilPostgresClient
	}
	return &UserRepository{
		client: c,
	}, nil
}
