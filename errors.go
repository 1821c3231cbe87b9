package swrcache

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by every data method called before
// Initialize (or after Shutdown).
var ErrNotInitialized = errors.New("swrcache: cache not initialized")

// SetError reports a backend write that did not land. Unlike read failures,
// which degrade to misses, write failures must be visible: a caller that
// believes data is cached when it is not serves stale behavior downstream.
type SetError struct {
	Key string
	Err error
}

func (e *SetError) Error() string {
	return fmt.Sprintf("set %q failed: %v", e.Key, e.Err)
}

func (e *SetError) Unwrap() error { return e.Err }

// InvalidateError reports a partially-applied bulk invalidation. Entries
// deleted before the failure stay deleted; the count returned alongside this
// error tells the caller how far it got.
type InvalidateError struct {
	Pattern string
	ListErr error
	DelErr  error
}

func (e *InvalidateError) Error() string {
	switch {
	case e.ListErr != nil:
		return fmt.Sprintf("invalidate %q: listing failed: %v", e.Pattern, e.ListErr)
	case e.DelErr != nil:
		return fmt.Sprintf("invalidate %q: delete failed: %v", e.Pattern, e.DelErr)
	default:
		return fmt.Sprintf("invalidate %q: unknown error", e.Pattern)
	}
}

func (e *InvalidateError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.ListErr != nil {
		errs = append(errs, e.ListErr)
	}
	if e.DelErr != nil {
		errs = append(errs, e.DelErr)
	}
	return errs
}
