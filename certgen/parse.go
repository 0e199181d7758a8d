package certgen

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"
)

// ParseRoot decodes a root certificate and its private key from PEM.
func ParseRoot(certPEM, keyPEM []byte) (*RootCertificate, error) {
	m, err := parseMaterial(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}
	if !m.cert.IsCA {
		return nil, &CertificateError{Op: "parse root", Err: ErrNotCA}
	}

	return &RootCertificate{
		material: *m,
		Label:    rootLabel(m.cert),
	}, nil
}

// ParseLeaf decodes the leaf certificate for host and its private key from
// PEM. The issuer is not verified.
func ParseLeaf(host string, certPEM, keyPEM []byte, issuer *RootCertificate) (*LeafCertificate, error) {
	m, err := parseMaterial(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}

	return &LeafCertificate{
		material: *m,
		Host:     host,
		Issuer:   issuer,
	}, nil
}

func parseMaterial(certPEM, keyPEM []byte) (*material, error) {
	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil || certBlock.Type != "CERTIFICATE" {
		return nil, &CertificateError{Op: "decode certificate", Err: ErrInvalidPEM}
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, &CertificateError{Op: "parse certificate", Err: err}
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil || !strings.HasSuffix(keyBlock.Type, "PRIVATE KEY") {
		return nil, &CertificateError{Op: "decode key", Err: ErrInvalidPEM}
	}
	key, err := parsePrivateKey(keyBlock)
	if err != nil {
		return nil, &CertificateError{Op: "parse key", Err: err}
	}

	if !publicKeyEqual(cert.PublicKey, key.Public()) {
		return nil, &CertificateError{Op: "parse key", Err: ErrKeyMismatch}
	}

	return &material{cert: cert, key: key}, nil
}

func parsePrivateKey(blk *pem.Block) (crypto.Signer, error) {
	var (
		key any
		err error
	)
	switch blk.Type {
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(blk.Bytes)
	case "RSA PRIVATE KEY":
		key, err = x509.ParsePKCS1PrivateKey(blk.Bytes)
	default:
		key, err = x509.ParsePKCS8PrivateKey(blk.Bytes)
	}
	if err != nil {
		return nil, err
	}

	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
	return signer, nil
}

func publicKeyEqual(a, b crypto.PublicKey) bool {
	switch a := a.(type) {
	case *ecdsa.PublicKey:
		return a.Equal(b)
	case *rsa.PublicKey:
		return a.Equal(b)
	case ed25519.PublicKey:
		return a.Equal(b)
	default:
		return false
	}
}

func rootLabel(cert *x509.Certificate) string {
	for _, locality := range cert.Subject.Locality {
		label, ok := strings.CutPrefix(locality, "devcert Development Mode Certificates (")
		if ok {
			return strings.TrimSuffix(label, ")")
		}
	}
	return ""
}
