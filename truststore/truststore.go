package truststore

import (
	"context"
	"crypto/x509"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

type CA struct {
	*x509.Certificate

	FilePath   string
	UniqueName string
}

// NewCA wraps a root certificate persisted at filePath.
func NewCA(cert *x509.Certificate, filePath string) *CA {
	return &CA{
		Certificate: cert,
		FilePath:    filePath,
		UniqueName:  "devcert-" + cert.SerialNumber.Text(16),
	}
}

// Target is a trust database that a root CA can be installed into.
//
// InstallCA reports soft results as outcomes. A non-nil error is fatal and
// is only returned by native stores the platform claims to support.
type Target interface {
	Description() string
	InstallCA(ctx context.Context, ca *CA) ([]Outcome, error)
}

func wrapErr(err error, msg string) error {
	return fmt.Errorf("%s: %w", msg, err)
}

func cmdErr(err error, cmd string, out []byte) error {
	return fmt.Errorf("failed to execute \"%s\": %w\n\n%s\n", cmd, err, out)
}

func binaryExists(fs CmdFS, name string) bool {
	_, err := fs.LookPath(name)
	return err == nil
}

func pathExists(sfs fs.StatFS, path string) bool {
	_, err := sfs.Stat(strings.Trim(path, string(os.PathSeparator)))
	return err == nil
}
