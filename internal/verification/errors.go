package verification

import "errors"

var (
	// ErrEmptyQuery is returned when the query is empty after trimming.
	ErrEmptyQuery = errors.New("verification query is empty")
	// ErrSearchInProgress is returned when a session already has a search in flight.
	ErrSearchInProgress = errors.New("a verification is already in progress")
)
