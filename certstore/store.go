/*
Package certstore persists the certificates of a devcert profile.

On-disk layout:

	<root>/stores/<profile>/
	  root.pem         root certificate (0644)
	  root.key.pem     root private key (0600)
	  <host>.pem       leaf certificate (0644)
	  <host>.key.pem   leaf private key (0600)
	  .lock            advisory lock held by commands

Leaf file names are the literal host string: no case folding or other
normalization is applied, so "MyApp.local" and "myapp.local" are
distinct leaves.
*/
package certstore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"github.com/Killavus/devcert/certgen"
)

const (
	storesDirName = "stores"
	lockFileName  = ".lock"

	certExt = ".pem"
	keyExt  = ".key.pem"

	dirPerms  = 0700
	certPerms = 0644
	keyPerms  = 0600
)

const (
	DefaultProfile = "default"

	// DefaultLockTimeout is how long Lock waits on another process.
	DefaultLockTimeout = 10 * time.Second
)

type Store struct {
	Profile string

	Logger logrus.FieldLogger

	// LockTimeout overrides DefaultLockTimeout when non-zero.
	LockTimeout time.Duration

	dir string
}

// Open returns the store for profile under rootDir, creating the profile
// directory if needed.
func Open(rootDir, profile string) (*Store, error) {
	if err := validName(profile); err != nil {
		return nil, &StoreError{Op: "open profile", Path: profile, Err: err}
	}

	dir := filepath.Join(rootDir, storesDirName, profile)
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return nil, &StoreError{Op: "open profile", Path: dir, Err: err}
	}

	return &Store{
		Profile: profile,
		dir:     dir,
	}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) CertPath(name string) string { return filepath.Join(s.dir, name+certExt) }

func (s *Store) KeyPath(name string) string { return filepath.Join(s.dir, name+keyExt) }

// LoadRoot returns the profile's root certificate, or nil if the profile
// has none.
func (s *Store) LoadRoot() (*certgen.RootCertificate, error) {
	certPEM, keyPEM, err := s.readPair("load root", certgen.RootName)
	if err != nil || certPEM == nil {
		return nil, err
	}

	root, err := certgen.ParseRoot(certPEM, keyPEM)
	if err != nil {
		return nil, &StoreError{Op: "load root", Path: s.CertPath(certgen.RootName), Err: err}
	}

	s.log().WithField("serial", root.X509().SerialNumber.Text(16)).Debug("loaded root certificate")
	return root, nil
}

// LoadLeaf returns the leaf certificate stored for host, or nil if there is
// none.
func (s *Store) LoadLeaf(host string, root *certgen.RootCertificate) (*certgen.LeafCertificate, error) {
	if err := validLeafName(host); err != nil {
		return nil, &StoreError{Op: "load leaf", Path: host, Err: err}
	}

	certPEM, keyPEM, err := s.readPair("load leaf", host)
	if err != nil || certPEM == nil {
		return nil, err
	}

	leaf, err := certgen.ParseLeaf(host, certPEM, keyPEM, root)
	if err != nil {
		return nil, &StoreError{Op: "load leaf", Path: s.CertPath(host), Err: err}
	}
	return leaf, nil
}

// Save writes the certificate and its key. The two writes are not atomic: a
// failure between them leaves the pair inconsistent, which the next load
// reports.
func (s *Store) Save(cert certgen.Certificate) error {
	name := cert.Name()

	switch cert.(type) {
	case *certgen.RootCertificate:
	case *certgen.LeafCertificate:
		if err := validLeafName(name); err != nil {
			return &StoreError{Op: "save leaf", Path: name, Err: err}
		}
	default:
		panic("impossible")
	}

	keyPEM, err := cert.KeyPEM()
	if err != nil {
		return &StoreError{Op: "save", Path: s.KeyPath(name), Err: err}
	}

	certPath, keyPath := s.CertPath(name), s.KeyPath(name)
	if err := writeFile(certPath, cert.CertPEM(), certPerms); err != nil {
		return &StoreError{Op: "save certificate", Path: certPath, Err: err}
	}
	if err := writeFile(keyPath, keyPEM, keyPerms); err != nil {
		return &StoreError{Op: "save key", Path: keyPath, Err: err}
	}

	s.log().WithFields(logrus.Fields{
		"name":   name,
		"cert":   certPath,
		"key":    keyPath,
		"serial": cert.X509().SerialNumber.Text(16),
	}).Info("saved certificate")
	return nil
}

// Lock takes the profile's advisory lock, waiting until ctx is done or the
// lock timeout passes. The returned func releases it.
func (s *Store) Lock(ctx context.Context) (func() error, error) {
	path := filepath.Join(s.dir, lockFileName)
	lock := flock.New(path)

	timeout := s.LockTimeout
	if timeout == 0 {
		timeout = DefaultLockTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			err = ErrLocked
		}
		return nil, &StoreError{Op: "lock profile", Path: path, Err: err}
	}
	if !ok {
		return nil, &StoreError{Op: "lock profile", Path: path, Err: ErrLocked}
	}

	s.log().WithField("path", path).Debug("locked profile")
	return lock.Unlock, nil
}

func (s *Store) readPair(op, name string) (certPEM, keyPEM []byte, err error) {
	certPath, keyPath := s.CertPath(name), s.KeyPath(name)

	certOK, err := fileExists(certPath)
	if err != nil {
		return nil, nil, &StoreError{Op: op, Path: certPath, Err: err}
	}
	keyOK, err := fileExists(keyPath)
	if err != nil {
		return nil, nil, &StoreError{Op: op, Path: keyPath, Err: err}
	}

	switch {
	case !certOK && !keyOK:
		return nil, nil, nil
	case !keyOK:
		return nil, nil, &StoreError{Op: op, Path: keyPath, Err: ErrInconsistent}
	case !certOK:
		return nil, nil, &StoreError{Op: op, Path: certPath, Err: ErrInconsistent}
	}

	if certPEM, err = os.ReadFile(certPath); err != nil {
		return nil, nil, &StoreError{Op: op, Path: certPath, Err: err}
	}
	if keyPEM, err = os.ReadFile(keyPath); err != nil {
		return nil, nil, &StoreError{Op: op, Path: keyPath, Err: err}
	}
	return certPEM, keyPEM, nil
}

func (s *Store) log() logrus.FieldLogger {
	if s.Logger != nil {
		return s.Logger.WithField("profile", s.Profile)
	}
	return discardLogger
}

var discardLogger = &logrus.Logger{
	Out:       io.Discard,
	Formatter: new(logrus.TextFormatter),
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.PanicLevel,
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, errors.New("is a directory")
	}
	return true, nil
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(path, perm)
}

func validName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return ErrInvalidName
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return ErrInvalidName
	}
	return nil
}

// validLeafName rejects hosts whose files would collide with the root pair
// or with another leaf's key file.
func validLeafName(host string) error {
	if err := validName(host); err != nil {
		return err
	}
	if host == certgen.RootName || strings.HasSuffix(host, ".key") {
		return ErrInvalidName
	}
	return nil
}
