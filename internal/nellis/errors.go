package nellis

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested listing does not exist upstream.
var ErrNotFound = errors.New("listing not found")

// TransientError indicates a network or 5xx failure. The caller may retry;
// sibling work (other categories, other listings) should proceed.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient fetch failure: %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// MalformedResponseError indicates the response body did not match the
// expected JSON shape. Soft failure for the page/item in question.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %s: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
