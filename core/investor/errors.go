package investor

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MsgRateLimited = "Please wait a moment before making more requests."
	MsgQueryFailed = "Failed to load investors data. Please try again later."
	MsgNoResults   = "No investors match the current filters."
)

// ErrRateLimited marks a failure caused by the backend throttling the caller.
var ErrRateLimited = errors.New("rate limit exceeded")

type NotFoundError struct {
	ID int64
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("no investor record found for id \"%d\"", err.ID)
}

type ValidationError struct {
	Err error
}

func (err ValidationError) Error() string {
	return fmt.Sprintf("invalid investor filter: %s", err.Err)
}

func (err ValidationError) Unwrap() error {
	return err.Err
}

type InvalidError struct {
	Reason string
}

func (err InvalidError) Error() string {
	return fmt.Sprintf("invalid investor: %s", err.Reason)
}

// QueryError is returned when the backend fails to answer a query.
type QueryError struct {
	Op  string
	Err error
}

func (err QueryError) Error() string {
	return fmt.Sprintf("investor query %s: %s", err.Op, err.Err)
}

func (err QueryError) Unwrap() error {
	return err.Err
}

// RateLimitError is a QueryError caused by rate limiting.
type RateLimitError struct {
	QueryError
}

func (err RateLimitError) Error() string {
	return fmt.Sprintf("investor query %s rate limited: %s", err.Op, err.Err)
}

func (err RateLimitError) Unwrap() error {
	return err.QueryError
}

// NewQueryError wraps a backend failure, classifying rate limiting.
func NewQueryError(op string, err error) error {
	qerr := QueryError{Op: op, Err: err}
	if IsRateLimited(err) {
		return RateLimitError{QueryError: qerr}
	}
	return qerr
}

// IsRateLimited reports whether err was caused by the backend throttling
// the caller.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.As(err, new(RateLimitError)) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "rate limit")
}

// UserMessage returns the text shown to a person when a query fails.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsRateLimited(err):
		return MsgRateLimited
	case errors.As(err, new(ValidationError)):
		return err.Error()
	default:
		return MsgQueryFailed
	}
}
