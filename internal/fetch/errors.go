// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"fmt"
)

// ErrCapExceeded signals that the source refused to return the full result
// set for one query shape. The fetcher recovers by subdividing the query;
// at the finest granularity it accepts partial results instead.
var ErrCapExceeded = errors.New("result cap exceeded")

// QueryError means the source rejected the constructed query for a reason
// other than size (malformed predicate, unsupported field). On a narrow
// fallback slice it is skippable; before any subdivision it indicates a
// query-construction bug and aborts the run.
type QueryError struct {
	Query   string
	Status  int
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query rejected (HTTP %d): %s", e.Status, e.Message)
}

// TransportError means the source or the network failed. Always fatal for
// the run; retrying the same query shape cannot help.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
