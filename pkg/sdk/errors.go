package sdk

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that the origin does not know the requested flag key.
	ErrNotFound = errors.New("flag not found")

	// ErrEmptyKey reports a lookup with an empty flag key.
	ErrEmptyKey = errors.New("flag key is empty")

	// ErrMissingAPIURL reports a Config without an origin base URL.
	ErrMissingAPIURL = errors.New("api url is required")
)

// TransportError reports an unreachable origin or a non-success HTTP status.
// Status is zero when the request never produced a response.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("origin request failed: status %d", e.Status)
	}
	return fmt.Sprintf("origin unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
