package truststore

import (
	"bytes"
	"context"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"io/fs"
	"os"

	"howett.net/plist"
)

const (
	platformName = "macOS"

	systemKeychain = "/Library/Keychains/System.keychain"
)

// https://github.com/golang/go/issues/24652#issuecomment-399826583
var (
	trustSettings     []interface{}
	_, _              = plist.Unmarshal(trustSettingsData, &trustSettings)
	trustSettingsData = []byte(`
<array>
	<dict>
		<key>kSecTrustSettingsPolicy</key>
		<data>
		KoZIhvdjZAED
		</data>
		<key>kSecTrustSettingsPolicyName</key>
		<string>sslServer</string>
		<key>kSecTrustSettingsResult</key>
		<integer>1</integer>
	</dict>
	<dict>
		<key>kSecTrustSettingsPolicy</key>
		<data>
		KoZIhvdjZAEC
		</data>
		<key>kSecTrustSettingsPolicyName</key>
		<string>basicX509</string>
		<key>kSecTrustSettingsResult</key>
		<integer>1</integer>
	</dict>
</array>
`)
)

func firefoxProfiles() []string {
	return []string{
		"Library/Application Support/Firefox/Profiles",
	}
}

type Platform struct {
	HomeDir string

	DataFS fs.StatFS
	SysFS  CmdFS
}

func (s *Platform) check() error { return nil }

func (s *Platform) installCA(_ context.Context, ca *CA) (string, error) {
	certFile, err := os.CreateTemp("", "devcert-root-*.pem")
	if err != nil {
		return "", wrapErr(err, "failed to create temp file")
	}
	defer os.Remove(certFile.Name())

	if err := pem.Encode(certFile, &pem.Block{Type: "CERTIFICATE", Bytes: ca.Raw}); err != nil {
		certFile.Close()
		return "", wrapErr(err, "failed to write root certificate")
	}
	if err := certFile.Close(); err != nil {
		return "", wrapErr(err, "failed to write root certificate")
	}

	args := []string{
		"add-trusted-cert", "-d",
		"-k", systemKeychain,
		certFile.Name(),
	}
	if out, err := s.SysFS.SudoExec(s.SysFS.Command("security", args...)); err != nil {
		return systemKeychain, cmdErr(err, "security add-trusted-cert", out)
	}

	// Make trustSettings explicit, as older Go does not know the defaults.
	// https://github.com/golang/go/issues/24652

	plistFile, err := os.CreateTemp("", "trust-settings")
	if err != nil {
		return systemKeychain, wrapErr(err, "failed to create temp file")
	}
	plistFile.Close()
	defer os.Remove(plistFile.Name())

	args = []string{
		"trust-settings-export",
		"-d", plistFile.Name(),
	}
	if out, err := s.SysFS.SudoExec(s.SysFS.Command("security", args...)); err != nil {
		return systemKeychain, cmdErr(err, "security trust-settings-export", out)
	}

	plistData, err := os.ReadFile(plistFile.Name())
	if err != nil {
		return systemKeychain, wrapErr(err, "failed to read trust settings")
	}

	var plistRoot map[string]interface{}
	if _, err = plist.Unmarshal(plistData, &plistRoot); err != nil {
		return systemKeychain, wrapErr(err, "failed to parse trust settings")
	}
	if version, _ := plistRoot["trustVersion"].(uint64); version != 1 {
		return systemKeychain, fmt.Errorf("unsupported trust settings version: %v", plistRoot["trustVersion"])
	}

	rootSubjectASN1, err := asn1.Marshal(ca.Certificate.Subject.ToRDNSequence())
	if err != nil {
		return systemKeychain, wrapErr(err, "failed to marshal certificate subject")
	}

	trustList, _ := plistRoot["trustList"].(map[string]interface{})
	for key := range trustList {
		entry, ok := trustList[key].(map[string]interface{})
		if !ok {
			continue
		}
		issuerName, ok := entry["issuerName"].([]byte)
		if !ok || !bytes.Equal(rootSubjectASN1, issuerName) {
			continue
		}
		entry["trustSettings"] = trustSettings
		break
	}

	if plistData, err = plist.MarshalIndent(plistRoot, plist.XMLFormat, "\t"); err != nil {
		return systemKeychain, wrapErr(err, "failed to serialize trust settings")
	}
	if err = os.WriteFile(plistFile.Name(), plistData, 0600); err != nil {
		return systemKeychain, wrapErr(err, "failed to write trust settings")
	}

	args = []string{
		"trust-settings-import",
		"-d", plistFile.Name(),
	}
	if out, err := s.SysFS.SudoExec(s.SysFS.Command("security", args...)); err != nil {
		return systemKeychain, cmdErr(err, "security trust-settings-import", out)
	}

	return systemKeychain, nil
}
