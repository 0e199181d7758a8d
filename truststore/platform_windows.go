package truststore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/sys/windows"
)

const (
	platformName = "Windows"

	rootStoreName = "ROOT"
)

func firefoxProfiles() []string {
	return []string{
		"AppData/Roaming/Mozilla/Firefox/Profiles",
	}
}

type Platform struct {
	HomeDir string

	DataFS fs.StatFS
	SysFS  CmdFS
}

func (s *Platform) check() error { return nil }

func (s *Platform) installCA(_ context.Context, ca *CA) (string, error) {
	if len(ca.Raw) == 0 {
		return rootStoreName, errors.New("empty root certificate")
	}

	err := withStore(openRootStore, func(store nativeStore) error {
		return store.addCert(ca.Raw)
	})
	return rootStoreName, err
}

type rootStore windows.Handle

func openRootStore() (nativeStore, error) {
	name, err := windows.UTF16PtrFromString(rootStoreName)
	if err != nil {
		return nil, err
	}

	handle, err := windows.CertOpenSystemStore(0, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open windows root store: %w", err)
	}
	return rootStore(handle), nil
}

func (w rootStore) close() error {
	if err := windows.CertCloseStore(windows.Handle(w), 0); err != nil {
		return fmt.Errorf("failed to close windows root store: %w", err)
	}
	return nil
}

// addCert keeps an identical certificate already in the store.
func (w rootStore) addCert(der []byte) error {
	cert, err := windows.CertCreateCertificateContext(
		windows.X509_ASN_ENCODING|windows.PKCS_7_ASN_ENCODING,
		&der[0],
		uint32(len(der)),
	)
	if err != nil {
		return fmt.Errorf("failed parsing cert: %w", err)
	}
	defer windows.CertFreeCertificateContext(cert)

	err = windows.CertAddCertificateContextToStore(
		windows.Handle(w),
		cert,
		windows.CERT_STORE_ADD_USE_EXISTING,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed adding cert: %w", err)
	}
	return nil
}
