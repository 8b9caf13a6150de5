package user

import (
	"errors"
	"fmt"
)

var (
	ErrNoUserInformation = errors.New("no user information")
)

type NotFoundError struct {
	ID    string
	Email string
}

func (e NotFoundError) Error() string {
	cause := "could not find user"
	if e.ID != "" {
		cause += fmt.Sprintf(" with id \"%s\"", e.ID)
	}
	if e.Email != "" {
		cause += fmt.Sprintf(" with email \"%s\"", e.Email)
	}
	return cause
}

type InvalidError struct {
	ID string
}

func (e InvalidError) Error() string {
	return fmt.Sprintf("invalid user id \"%s\"", e.ID)
}
