package add

import (
	"context"
	"crypto/x509"
	"net"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/Killavus/devcert"
	"github.com/Killavus/devcert/certgen"
	"github.com/Killavus/devcert/certstore"
	"github.com/Killavus/devcert/cmdtest"
	_ "github.com/Killavus/devcert/testflags"
	"github.com/Killavus/devcert/ui"
	"github.com/Killavus/devcert/ui/uitest"
)

func TestCmdAdd(t *testing.T) {
	t.Run("--help", func(t *testing.T) {
		help := cmdtest.TestHelp(t, CmdAdd, "add", "--help")
		require.Contains(t, help, "add <host> [flags]")
	})

	t.Run("host", func(t *testing.T) {
		cfg := cmdtest.TestCfg(t, CmdAdd, "add", "myapp.test")
		require.Equal(t, "myapp.test", cfg.Add.Host)
	})

	t.Run("-p staging host", func(t *testing.T) {
		cfg := cmdtest.TestCfg(t, CmdAdd, "add", "-p", "staging", "10.0.0.1")
		require.Equal(t, "10.0.0.1", cfg.Add.Host)
		require.Equal(t, "staging", cfg.Profile)
	})

	t.Run("no-host", func(t *testing.T) {
		err := cmdtest.TestError(t, CmdAdd, "add")
		require.ErrorContains(t, err, "accepts 1 arg(s), received 0")
	})
}

var testTime = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestAddNoRoot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(t, "myapp.test")
	ctx = devcert.ContextWithConfig(ctx, cfg)

	drv, tm := uitest.TestTUI(ctx, t)

	errc := runTUI(ctx, Command{}, drv, tm)

	err := <-errc
	require.ErrorIs(t, err, certstore.ErrNoRoot)

	var uierr ui.Error
	require.ErrorAs(t, err, &uierr)

	store := openStore(t, cfg)
	for _, path := range []string{
		store.CertPath("myapp.test"),
		store.KeyPath("myapp.test"),
		store.CertPath(certgen.RootName),
	} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("want no file at %s, got %v", path, err)
		}
	}

	require.NoError(t, tm.Quit())
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name string

		host string

		dnsNames []string
		ips      []net.IP
	}{
		{
			name: "hostname",

			host: "myapp.test",

			dnsNames: []string{"myapp.test"},
		},
		{
			name: "random-hostname",

			host: gofakeit.DomainName(),
		},
		{
			name: "ipv4",

			host: "127.0.0.1",

			ips: []net.IP{net.ParseIP("127.0.0.1").To4()},
		},
		{
			name: "idn",

			host: "bücher.test",

			dnsNames: []string{"xn--bcher-kva.test"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cfg := testConfig(t, test.host)
			ctx = devcert.ContextWithConfig(ctx, cfg)

			root := createRoot(t, cfg)

			drv, tm := uitest.TestTUI(ctx, t)

			errc := runTUI(ctx, Command{}, drv, tm)
			tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
			require.NoError(t, <-errc)

			require.Contains(t, drv.Golden(), "    - Issued certificate for "+test.host+", valid until ")

			leaf, err := openStore(t, cfg).LoadLeaf(test.host, root)
			require.NoError(t, err)
			require.NotNil(t, leaf)

			if test.dnsNames != nil {
				require.Equal(t, test.dnsNames, leaf.X509().DNSNames)
			}
			if test.ips != nil {
				require.Len(t, leaf.X509().IPAddresses, len(test.ips))
				for i, ip := range test.ips {
					require.True(t, ip.Equal(leaf.X509().IPAddresses[i]))
				}
			}

			roots := x509.NewCertPool()
			roots.AddCert(root.X509())

			_, err = leaf.X509().Verify(x509.VerifyOptions{
				Roots:       roots,
				CurrentTime: testTime,
			})
			require.NoError(t, err)
		})
	}
}

func TestAddReissue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const host = "myapp.test"

	cfg := testConfig(t, host)
	ctx = devcert.ContextWithConfig(ctx, cfg)

	root := createRoot(t, cfg)

	now := testTime
	cmd := Command{
		Authority: &certgen.Authority{
			Now: func() time.Time {
				now = now.Add(time.Hour)
				return now
			},
		},
	}

	var leaves []*certgen.LeafCertificate
	for i := 0; i < 2; i++ {
		drv, tm := uitest.TestTUI(ctx, t)

		errc := runTUI(ctx, cmd, drv, tm)
		tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
		require.NoError(t, <-errc)

		if i == 1 {
			require.Contains(t, drv.Golden(), "    - Reissued certificate for "+host+", valid until ")
		}

		leaf, err := openStore(t, cfg).LoadLeaf(host, root)
		require.NoError(t, err)
		leaves = append(leaves, leaf)
	}

	first, second := leaves[0].X509(), leaves[1].X509()
	if first.SerialNumber.Cmp(second.SerialNumber) == 0 {
		t.Errorf("want a new serial, got %s twice", first.SerialNumber)
	}
	require.NotEqual(t, first.RawSubjectPublicKeyInfo, second.RawSubjectPublicKeyInfo)
	require.True(t, second.NotBefore.After(first.NotBefore))
	require.Equal(t, first.Subject.String(), second.Subject.String())
	require.Equal(t, first.DNSNames, second.DNSNames)
}

func TestAddInvalidHost(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(t, "../escape")
	ctx = devcert.ContextWithConfig(ctx, cfg)

	createRoot(t, cfg)

	drv, tm := uitest.TestTUI(ctx, t)

	errc := runTUI(ctx, Command{}, drv, tm)

	err := <-errc
	require.ErrorIs(t, err, certstore.ErrInvalidName)

	require.NoError(t, tm.Quit())
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func testConfig(t *testing.T, host string) *devcert.Config {
	t.Helper()

	cfg := devcert.DefaultConfig()
	cfg.RootDir = t.TempDir()
	cfg.NonInteractive = true
	cfg.Add.Host = host
	cfg.Test.Timestamp = testTime
	return cfg
}

func openStore(t *testing.T, cfg *devcert.Config) *certstore.Store {
	t.Helper()

	store, err := certstore.Open(cfg.RootDir, cfg.Profile)
	require.NoError(t, err)
	return store
}

func createRoot(t *testing.T, cfg *devcert.Config) *certgen.RootCertificate {
	t.Helper()

	authority := certgen.Authority{Now: cfg.Timestamp}
	root, err := authority.CreateRoot(cfg.Profile)
	require.NoError(t, err)
	require.NoError(t, openStore(t, cfg).Save(root))

	return root
}

// runTUI runs cmd and quits the program once it succeeds. A failed run
// leaves the program running for the caller to inspect.
func runTUI(ctx context.Context, cmd Command, drv *ui.Driver, tm *teatest.TestModel) chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)

		if err := cmd.UI().RunTUI(ctx, drv); err != nil {
			errc <- err
			return
		}
		errc <- tm.Quit()
	}()
	return errc
}
