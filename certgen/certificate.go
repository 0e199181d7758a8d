/*
Package certgen builds and signs the root and leaf certificates of a
devcert profile. It performs no I/O.
*/
package certgen

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

const (
	Organization = "devcert"
	Country      = "US"

	// RootName is the canonical store name of every root certificate.
	RootName = "root"
)

// Certificate is either a *RootCertificate or a *LeafCertificate.
type Certificate interface {
	Name() string

	X509() *x509.Certificate
	DER() []byte

	CertPEM() []byte
	KeyPEM() ([]byte, error)

	certificate()
}

type material struct {
	cert *x509.Certificate
	key  crypto.Signer
}

func (m *material) X509() *x509.Certificate { return m.cert }

func (m *material) DER() []byte { return m.cert.Raw }

func (m *material) PrivateKey() crypto.Signer { return m.key }

func (m *material) CertPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: m.cert.Raw,
	})
}

func (m *material) KeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(m.key)
	if err != nil {
		return nil, &CertificateError{Op: "marshal key", Err: err}
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: der,
	}), nil
}

// RootCertificate is a self-signed CA certificate and its private key.
type RootCertificate struct {
	material

	// Label is the profile label embedded in the subject locality.
	Label string
}

func (*RootCertificate) certificate() {}

func (*RootCertificate) Name() string { return RootName }

// LeafCertificate is an end-entity certificate issued for one host.
type LeafCertificate struct {
	material

	Host string

	// Issuer is the root that signed the leaf. It is not owned by the leaf.
	Issuer *RootCertificate
}

func (*LeafCertificate) certificate() {}

func (l *LeafCertificate) Name() string { return l.Host }

func rootLocality(label string) string {
	return fmt.Sprintf("devcert Development Mode Certificates (%s)", label)
}

func leafLocality(host string) string {
	return fmt.Sprintf("devcert Development Mode Certificate for %s", host)
}
