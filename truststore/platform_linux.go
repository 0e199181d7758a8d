package truststore

import (
	"bytes"
	"context"
	"encoding/pem"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

const platformName = "Linux"

type Platform struct {
	HomeDir string

	DataFS fs.StatFS
	SysFS  CmdFS

	inito                sync.Once
	trustFilenamePattern string
	trustCommand         []string
}

func firefoxProfiles() []string {
	return []string{
		".mozilla/firefox",
		"snap/firefox/common/.mozilla/firefox",
	}
}

func (s *Platform) init() {
	s.inito.Do(func() {
		switch {
		case pathExists(s.DataFS, "/etc/pki/ca-trust/source/anchors/"):
			s.trustFilenamePattern = "/etc/pki/ca-trust/source/anchors/%s.pem"
			s.trustCommand = []string{"update-ca-trust", "extract"}
		case pathExists(s.DataFS, "/usr/local/share/ca-certificates/"):
			s.trustFilenamePattern = "/usr/local/share/ca-certificates/%s.crt"
			s.trustCommand = []string{"update-ca-certificates"}
		case pathExists(s.DataFS, "/etc/ca-certificates/trust-source/anchors/"):
			s.trustFilenamePattern = "/etc/ca-certificates/trust-source/anchors/%s.crt"
			s.trustCommand = []string{"trust", "extract-compat"}
		case pathExists(s.DataFS, "/usr/share/pki/trust/anchors"):
			s.trustFilenamePattern = "/usr/share/pki/trust/anchors/%s.pem"
			s.trustCommand = []string{"update-ca-certificates"}
		}
	})
}

func (s *Platform) check() error {
	s.init()

	if s.trustCommand == nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedPlatform, ErrUnsupportedDistro)
	}
	return nil
}

func (s *Platform) installCA(_ context.Context, ca *CA) (string, error) {
	path := s.trustFilenamePath(ca)
	cert := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ca.Raw})

	cmd := s.SysFS.Command("tee", path)
	cmd.Stdin = bytes.NewReader(cert)
	if out, err := s.SysFS.SudoExec(cmd); err != nil {
		return path, cmdErr(err, "tee", out)
	}

	if out, err := s.SysFS.SudoExec(s.SysFS.Command(s.trustCommand[0], s.trustCommand[1:]...)); err != nil {
		return path, cmdErr(err, strings.Join(s.trustCommand, " "), out)
	}
	return path, nil
}

func (s *Platform) trustFilenamePath(ca *CA) string {
	return fmt.Sprintf(s.trustFilenamePattern, strings.Replace(ca.UniqueName, " ", "_", -1))
}
