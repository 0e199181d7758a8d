package certstore

import "errors"

var (
	ErrInconsistent = errors.New("certificate and key files are out of sync")
	ErrInvalidName  = errors.New("invalid store name")
	ErrLocked       = errors.New("profile is locked by another devcert process")
	ErrNoRoot       = errors.New("no root certificate in profile")
)

// StoreError reports a failure to read or write persisted certificate data.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Path == "" {
		return "store " + e.Op + ": " + e.Err.Error()
	}
	return "store " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }
