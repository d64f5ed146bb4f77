package database

import "errors"

// ErrStoreUnavailable matches any failure to reach the store
var ErrStoreUnavailable = errors.New("store unavailable")

// UnavailableError wraps a connection level failure. The catalog treats it as fatal.
type UnavailableError struct {
	Err error
}

// Error returns the error message
func (e *UnavailableError) Error() string {
	return "store unavailable: " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStoreUnavailable) hold for every UnavailableError
func (e *UnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// IsUnavailable reports whether err came from a connection level failure
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
