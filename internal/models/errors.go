package models

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired is returned when a watchlist mutation is attempted
	// without an authenticated identity
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotFound is returned when a remote document does not exist
	ErrNotFound = errors.New("document not found")

	// ErrSessionNotFound is returned when no persisted session exists
	ErrSessionNotFound = errors.New("session not found")
)

// StatusError is a transport failure from either collaborator, carrying the
// HTTP status text
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("request failed with status %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("request failed with status %s", e.Status)
}

// IsNotFound reports whether err is a missing-document failure, either the
// sentinel or a 404 transport error
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == 404
}
