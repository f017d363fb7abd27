package service

import (
	"errors"
	"fmt"
)

// ErrEmptyBundle is returned when zero images survived an archive job.
// Any partially written artifact is removed before this propagates.
var ErrEmptyBundle = errors.New("no images could be bundled")

// NoResultsError is returned when all providers returned nothing usable
// for a query. This is the one condition that aborts a whole search round.
type NoResultsError struct {
	Query string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no photos found for the query: %q", e.Query)
}

// BatchFailedError is returned when one batch among several failed
// outright. Sibling archives already produced are left intact; callers
// should inspect what exists.
type BatchFailedError struct {
	BatchIndex int
	Err        error
}

func (e *BatchFailedError) Error() string {
	return fmt.Sprintf("batch %d failed: %v", e.BatchIndex, e.Err)
}

func (e *BatchFailedError) Unwrap() error {
	return e.Err
}
