package list

import "fmt"

type NotFoundError struct {
	ID string
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("could not find list with id \"%s\"", err.ID)
}

type DuplicateNameError struct {
	Name string
}

func (err DuplicateNameError) Error() string {
	return fmt.Sprintf("a list named \"%s\" already exists", err.Name)
}

type InvalidError struct {
	Reason string
}

func (err InvalidError) Error() string {
	return fmt.Sprintf("invalid list: %s", err.Reason)
}
