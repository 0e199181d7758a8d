package certgen

import "errors"

var (
	ErrEmptyHost      = errors.New("host is empty")
	ErrInvalidPEM     = errors.New("invalid PEM data")
	ErrKeyMismatch    = errors.New("private key does not match certificate")
	ErrMissingKey     = errors.New("root certificate has no private key")
	ErrNotCA          = errors.New("certificate is not a CA")
	ErrUnsupportedKey = errors.New("unsupported private key type")
)

// CertificateError reports a failure to build, sign or decode a certificate.
type CertificateError struct {
	Op  string
	Err error
}

func (e *CertificateError) Error() string {
	return "certificate " + e.Op + ": " + e.Err.Error()
}

func (e *CertificateError) Unwrap() error { return e.Err }
