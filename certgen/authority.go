package certgen

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"net"
	"time"

	"golang.org/x/net/idna"
)

const (
	// ClockSkew is subtracted from the issuance time for NotBefore.
	ClockSkew = 24 * time.Hour

	// RootValidity is counted from NotBefore and is never exceeded.
	RootValidity = 1558 * 24 * time.Hour

	LeafValidity = 397 * 24 * time.Hour
)

var (
	RootKeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature

	LeafKeyUsage    = x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment
	LeafExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth}
)

// Authority issues certificates. The zero value uses the wall clock and
// crypto/rand.
type Authority struct {
	Now  func() time.Time
	Rand io.Reader
}

var defaultAuthority Authority

// CreateRoot creates a new self-signed root CA for the profile label.
func CreateRoot(profileLabel string) (*RootCertificate, error) {
	return defaultAuthority.CreateRoot(profileLabel)
}

// CreateLeaf issues a new leaf certificate for host, signed by root.
func CreateLeaf(host string, root *RootCertificate) (*LeafCertificate, error) {
	return defaultAuthority.CreateLeaf(host, root)
}

func (a Authority) CreateRoot(profileLabel string) (*RootCertificate, error) {
	key, err := a.generateKey()
	if err != nil {
		return nil, &CertificateError{Op: "generate root key", Err: err}
	}

	serial, err := a.serialNumber()
	if err != nil {
		return nil, &CertificateError{Op: "generate root serial", Err: err}
	}

	notBefore := a.now().Add(-ClockSkew)

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      subject(rootLocality(profileLabel)),

		NotBefore: notBefore,
		NotAfter:  notBefore.Add(RootValidity),

		KeyUsage: RootKeyUsage,

		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	cert, err := a.sign(template, template, key.Public(), key)
	if err != nil {
		return nil, &CertificateError{Op: "sign root", Err: err}
	}

	return &RootCertificate{
		material: material{cert: cert, key: key},
		Label:    profileLabel,
	}, nil
}

func (a Authority) CreateLeaf(host string, root *RootCertificate) (*LeafCertificate, error) {
	if host == "" {
		return nil, &CertificateError{Op: "create leaf", Err: ErrEmptyHost}
	}
	if root == nil || root.key == nil {
		return nil, &CertificateError{Op: "create leaf", Err: ErrMissingKey}
	}

	template := &x509.Certificate{
		Subject: subject(leafLocality(host)),

		KeyUsage:    LeafKeyUsage,
		ExtKeyUsage: LeafExtKeyUsage,

		BasicConstraintsValid: true,
		IsCA:                  false,
	}

	if ip := net.ParseIP(host); ip != nil {
		template.IPAddresses = []net.IP{ip}
	} else {
		name, err := idna.Punycode.ToASCII(host)
		if err != nil {
			return nil, &CertificateError{Op: "encode leaf name", Err: err}
		}
		template.DNSNames = []string{name}
	}

	key, err := a.generateKey()
	if err != nil {
		return nil, &CertificateError{Op: "generate leaf key", Err: err}
	}

	if template.SerialNumber, err = a.serialNumber(); err != nil {
		return nil, &CertificateError{Op: "generate leaf serial", Err: err}
	}

	template.NotBefore = a.now().Add(-ClockSkew)
	template.NotAfter = template.NotBefore.Add(LeafValidity)
	if rootNotAfter := root.cert.NotAfter; template.NotAfter.After(rootNotAfter) {
		template.NotAfter = rootNotAfter
	}

	cert, err := a.sign(template, root.cert, key.Public(), root.key)
	if err != nil {
		return nil, &CertificateError{Op: "sign leaf", Err: err}
	}

	return &LeafCertificate{
		material: material{cert: cert, key: key},
		Host:     host,
		Issuer:   root,
	}, nil
}

func (a Authority) sign(template, parent *x509.Certificate, pub crypto.PublicKey, priv crypto.Signer) (*x509.Certificate, error) {
	der, err := x509.CreateCertificate(a.rand(), template, parent, pub, priv)
	if err != nil {
		return nil, err
	}
	return x509.ParseCertificate(der)
}

func (a Authority) generateKey() (crypto.Signer, error) {
	return ecdsa.GenerateKey(elliptic.P256(), a.rand())
}

func (a Authority) serialNumber() (*big.Int, error) {
	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(a.rand(), serialNumberLimit)
	if err != nil {
		return nil, err
	}
	// zero is not a valid serial number
	return serial.Add(serial, big.NewInt(1)), nil
}

func (a Authority) now() time.Time {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	// certificates encode validity with second precision
	return now().UTC().Truncate(time.Second)
}

func (a Authority) rand() io.Reader {
	if a.Rand != nil {
		return a.Rand
	}
	return rand.Reader
}

func subject(locality string) pkix.Name {
	return pkix.Name{
		Organization: []string{Organization},
		Country:      []string{Country},
		Locality:     []string{locality},
	}
}
