package devcert

// BasedirError reports that the directory holding the profile stores could
// not be determined or created.
type BasedirError struct {
	Err error
}

func (e *BasedirError) Error() string { return "base directory: " + e.Err.Error() }

func (e *BasedirError) Unwrap() error { return e.Err }
