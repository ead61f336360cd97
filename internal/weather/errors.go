package weather

import (
	"errors"
	"fmt"
)

// ErrResolution marks a failure to resolve weather for a place or point
var ErrResolution = errors.New("weather resolution failed")

// ErrMalformed marks a 2xx response that lacks the fields a record needs
var ErrMalformed = errors.New("malformed weather response")

// ResolutionError carries the query and upstream status of a failed fetch.
// Status is zero when the request never produced a response.
type ResolutionError struct {
	Query  string
	Status int
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to resolve weather for %q: status %d", e.Query, e.Status)
	}
	return fmt.Sprintf("failed to resolve weather for %q: %v", e.Query, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }
