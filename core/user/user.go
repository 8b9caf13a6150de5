package user

import (
	"context"
	"time"
)

// User is the authenticated profile a request acts on behalf of.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name,omitempty" db:"full_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Validate validates a user is valid or not
func (u *User) Validate() error {
	if u == nil {
		return ErrNoUserInformation
	}

	if u.ID == "" {
		return InvalidError{ID: u.ID}
	}

	return nil
}

// Repository contains interface of supported methods
type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Upsert(ctx context.Context, u *User) (string, error)
}
