package postgres

import (
	"database/sql"
	"time"

	"github.com/capitalninja/ninja/core/user"
)

type UserModel struct {
	ID        string         `db:"id"`
	Email     sql.NullString `db:"email"`
	FullName  sql.NullString `db:"full_name"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (u UserModel) toUser() user.User {
	return user.User{
		ID:        u.ID,
		Email:     u.Email.String,
		FullName:  u.FullName.String,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func newUserModel(u *user.User) UserModel {
	return UserModel{
		ID:        u.ID,
		Email:     nullString(u.Email),
		FullName:  nullString(u.FullName),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
