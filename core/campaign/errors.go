package campaign

import "fmt"

type NotFoundError struct {
	ID string
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("could not find campaign with id \"%s\"", err.ID)
}

type InvalidError struct {
	Reason string
}

func (err InvalidError) Error() string {
	return fmt.Sprintf("invalid campaign: %s", err.Reason)
}
