package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is returned when no usable credentials or caller
	// identity could be established. The run aborts before collection and is
	// never retried.
	ErrAuthentication = errors.New("authentication failed")

	// ErrWhitelistCollection is returned when any safe-range collector fails.
	// A partial whitelist would silently widen what counts as unsafe, so the
	// whole run aborts instead.
	ErrWhitelistCollection = errors.New("whitelist collection failed")
)

// CollectorError attributes a fetch failure to its resource category.
type CollectorError struct {
	Category string
	Err      error
}

func (e *CollectorError) Error() string {
	return fmt.Sprintf("collector %q: %v", e.Category, e.Err)
}

func (e *CollectorError) Unwrap() error { return e.Err }
