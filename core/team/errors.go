package team

import (
	"errors"
	"fmt"
)

var ErrInvalidToken = errors.New("invitation token is empty")

type AlreadyMemberError struct {
	Email string
}

func (err AlreadyMemberError) Error() string {
	return fmt.Sprintf("\"%s\" is already a team member", err.Email)
}

type NotFoundError struct {
	Email string
	Token bool
}

func (err NotFoundError) Error() string {
	if err.Token {
		return "invitation not found or no longer pending"
	}
	return fmt.Sprintf("could not find \"%s\"", err.Email)
}

type ExpiredError struct {
	Email string
}

func (err ExpiredError) Error() string {
	return fmt.Sprintf("invitation for \"%s\" has expired", err.Email)
}

type InvalidError struct {
	Reason string
}

func (err InvalidError) Error() string {
	return fmt.Sprintf("invalid invitation: %s", err.Reason)
}
