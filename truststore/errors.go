package truststore

import "errors"

var (
	ErrNoSudo = errors.New(`"sudo" is not available`)

	ErrNoNSS   = errors.New("no Firefox profiles directory")
	ErrNoNSSDB = errors.New("no NSS database")

	ErrNotImplemented      = errors.New("installation is not implemented")
	ErrUnsupportedDistro   = errors.New("unsupported Linux distribution")
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	ErrUnknownTarget = errors.New("unknown trust store")
)

type Op string

const (
	OpCheck   Op = "check"
	OpInstall Op = "install"
	OpOpen    Op = "open"
	OpSudo    Op = "sudo"
)

// Error is a trust store failure. A non-nil Fatal aborts the install; a
// Warning alone is reported as an outcome.
type Error struct {
	Op

	Fatal   error
	Warning error
}

func (e Error) Error() string {
	if e.Fatal != nil {
		return string(e.Op) + ": " + e.Fatal.Error()
	}
	return string(e.Op) + ": " + e.Warning.Error()
}

func (e Error) Unwrap() []error {
	var errs []error
	if e.Fatal != nil {
		errs = append(errs, e.Fatal)
	}
	if e.Warning != nil {
		errs = append(errs, e.Warning)
	}
	return errs
}

func (e Error) IsFatal() bool { return e.Fatal != nil }

type NSSError struct {
	Err error

	NSSBrowsers string
}

func (e NSSError) Error() string { return e.Err.Error() }

func (e NSSError) Unwrap() error { return e.Err }

type PlatformError struct {
	Err error

	RootCA string
}

func (e PlatformError) Error() string { return e.Err.Error() }

func (e PlatformError) Unwrap() error { return e.Err }

// IsFatal reports whether err must abort the install.
func IsFatal(err error) bool {
	var terr Error
	return errors.As(err, &terr) && terr.IsFatal()
}
