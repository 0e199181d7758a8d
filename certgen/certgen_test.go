package certgen

import (
	"crypto/x509"
	"errors"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

func TestCreateRoot(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 30, 15, 0, time.UTC)

	root, err := Authority{Now: func() time.Time { return now }}.CreateRoot("default")
	if err != nil {
		t.Fatal(err)
	}
	cert := root.X509()

	if want, got := now.Add(-24*time.Hour), cert.NotBefore; !want.Equal(got) {
		t.Errorf("want root not before %s, got %s", want, got)
	}
	if want, got := 1558*24*time.Hour, cert.NotAfter.Sub(cert.NotBefore); want != got {
		t.Errorf("want root validity %s, got %s", want, got)
	}
	if cert.NotBefore.After(now) || cert.NotAfter.Before(now) {
		t.Errorf("want issuance time %s inside validity window [%s, %s]", now, cert.NotBefore, cert.NotAfter)
	}

	if want, got := x509.KeyUsageCertSign|x509.KeyUsageCRLSign|x509.KeyUsageDigitalSignature, cert.KeyUsage; want != got {
		t.Errorf("want root key usage %v, got %v", want, got)
	}
	if len(cert.ExtKeyUsage) != 0 {
		t.Errorf("want no root extended key usage, got %v", cert.ExtKeyUsage)
	}
	if !cert.IsCA || !cert.BasicConstraintsValid {
		t.Errorf("want root to be a CA")
	}
	if cert.MaxPathLen > 0 || cert.MaxPathLenZero {
		t.Errorf("want unconstrained path length, got %d (zero=%t)", cert.MaxPathLen, cert.MaxPathLenZero)
	}

	if want, got := []string{"devcert"}, cert.Subject.Organization; !reflect.DeepEqual(want, got) {
		t.Errorf("want organization %q, got %q", want, got)
	}
	if want, got := []string{"US"}, cert.Subject.Country; !reflect.DeepEqual(want, got) {
		t.Errorf("want country %q, got %q", want, got)
	}
	if want, got := []string{"devcert Development Mode Certificates (default)"}, cert.Subject.Locality; !reflect.DeepEqual(want, got) {
		t.Errorf("want locality %q, got %q", want, got)
	}

	if err := cert.CheckSignatureFrom(cert); err != nil {
		t.Errorf("want root to be self-signed: %s", err)
	}
	if want, got := RootName, root.Name(); want != got {
		t.Errorf("want root name %q, got %q", want, got)
	}
}

func TestCreateLeaf(t *testing.T) {
	root, err := CreateRoot("default")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string

		host string

		dnsNames []string
		ips      []net.IP
	}{
		{
			name: "ipv4",

			host: "127.0.0.1",

			ips: []net.IP{net.ParseIP("127.0.0.1")},
		},
		{
			name: "ipv6",

			host: "::1",

			ips: []net.IP{net.ParseIP("::1")},
		},
		{
			name: "local-name",

			host: "myapp.local",

			dnsNames: []string{"myapp.local"},
		},
		{
			name: "mixed-case",

			host: "MyApp.Local",

			dnsNames: []string{"MyApp.Local"},
		},
		{
			name: "unicode",

			host: "bücher.local",

			dnsNames: []string{"xn--bcher-kva.local"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			leaf, err := CreateLeaf(test.host, root)
			if err != nil {
				t.Fatal(err)
			}
			cert := leaf.X509()

			if want, got := test.dnsNames, cert.DNSNames; !reflect.DeepEqual(want, got) {
				t.Errorf("want dns names %q, got %q", want, got)
			}
			if want, got := len(test.ips), len(cert.IPAddresses); want != got {
				t.Fatalf("want %d ip addresses, got %d", want, got)
			}
			for i, ip := range test.ips {
				if !ip.Equal(cert.IPAddresses[i]) {
					t.Errorf("want ip address %s, got %s", ip, cert.IPAddresses[i])
				}
			}

			if want, got := x509.KeyUsageDigitalSignature|x509.KeyUsageKeyEncipherment, cert.KeyUsage; want != got {
				t.Errorf("want leaf key usage %v, got %v", want, got)
			}
			if want, got := []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth}, cert.ExtKeyUsage; !reflect.DeepEqual(want, got) {
				t.Errorf("want leaf extended key usage %v, got %v", want, got)
			}
			if cert.IsCA {
				t.Errorf("want leaf not to be a CA")
			}
			if want, got := []string{"devcert Development Mode Certificate for " + test.host}, cert.Subject.Locality; !reflect.DeepEqual(want, got) {
				t.Errorf("want locality %q, got %q", want, got)
			}
			if want, got := root.X509().RawSubject, cert.RawIssuer; !reflect.DeepEqual(want, got) {
				t.Errorf("want leaf issuer to match root subject")
			}
			if leaf.Issuer != root {
				t.Errorf("want leaf issuer to reference the signing root")
			}
			if want, got := test.host, leaf.Name(); want != got {
				t.Errorf("want leaf name %q, got %q", want, got)
			}
		})
	}
}

func TestLeafChain(t *testing.T) {
	root, err := CreateRoot("default")
	if err != nil {
		t.Fatal(err)
	}
	other, err := CreateRoot("other")
	if err != nil {
		t.Fatal(err)
	}

	host := gofakeit.DomainName()
	leaf, err := CreateLeaf(host, root)
	if err != nil {
		t.Fatal(err)
	}

	if err := leaf.X509().CheckSignatureFrom(leaf.X509()); err == nil {
		t.Errorf("want leaf not to be self-signed")
	}

	roots := x509.NewCertPool()
	roots.AddCert(root.X509())
	if _, err := leaf.X509().Verify(x509.VerifyOptions{DNSName: host, Roots: roots}); err != nil {
		t.Errorf("want leaf to verify against its root: %s", err)
	}

	otherRoots := x509.NewCertPool()
	otherRoots.AddCert(other.X509())
	_, err = leaf.X509().Verify(x509.VerifyOptions{DNSName: host, Roots: otherRoots})

	var uaerr x509.UnknownAuthorityError
	if !errors.As(err, &uaerr) {
		t.Errorf("want unknown authority error verifying against another root, got %v", err)
	}
}

func TestCreateLeafFreshMaterial(t *testing.T) {
	root, err := CreateRoot("default")
	if err != nil {
		t.Fatal(err)
	}

	host := gofakeit.IPv4Address()

	first, err := CreateLeaf(host, root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := CreateLeaf(host, root)
	if err != nil {
		t.Fatal(err)
	}

	if first.X509().SerialNumber.Cmp(second.X509().SerialNumber) == 0 {
		t.Errorf("want distinct serial numbers for repeated issuance")
	}
	if reflect.DeepEqual(first.X509().RawSubjectPublicKeyInfo, second.X509().RawSubjectPublicKeyInfo) {
		t.Errorf("want distinct keys for repeated issuance")
	}
}

func TestCreateLeafClampedToRoot(t *testing.T) {
	issued := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	root, err := Authority{Now: func() time.Time { return issued }}.CreateRoot("default")
	if err != nil {
		t.Fatal(err)
	}

	late := issued.Add(1500 * 24 * time.Hour)
	leaf, err := Authority{Now: func() time.Time { return late }}.CreateLeaf("myapp.local", root)
	if err != nil {
		t.Fatal(err)
	}

	if want, got := root.X509().NotAfter, leaf.X509().NotAfter; !want.Equal(got) {
		t.Errorf("want leaf not after clamped to %s, got %s", want, got)
	}
}

func TestCreateLeafErrors(t *testing.T) {
	root, err := CreateRoot("default")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string

		host string
		root *RootCertificate

		err error
	}{
		{
			name: "empty-host",

			host: "",
			root: root,

			err: ErrEmptyHost,
		},
		{
			name: "missing-root",

			host: "myapp.local",
			root: nil,

			err: ErrMissingKey,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := CreateLeaf(test.host, test.root)

			var cerr *CertificateError
			if !errors.As(err, &cerr) {
				t.Fatalf("want certificate error, got %v", err)
			}
			if want, got := test.err, err; !errors.Is(got, want) {
				t.Errorf("want error %q, got %q", want, got)
			}
		})
	}
}
