package truststore

import (
	"context"
	"encoding/pem"
	"errors"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestPlatformLinux(t *testing.T) {
	ca := testCA(t)

	debian := fstest.MapFS{"usr/local/share/ca-certificates/.keep": {}}
	debianPath := "/usr/local/share/ca-certificates/" + ca.UniqueName + ".crt"

	t.Run("debian", func(t *testing.T) {
		sysFS := &recordFS{StatFS: debian}

		outcomes, err := NewPlatform("/home/test", debian, sysFS).InstallCA(context.Background(), ca)
		require.NoError(t, err)
		require.Equal(t, []Outcome{Installed("System (Linux)", debianPath)}, outcomes)

		want := [][]string{
			{"tee", debianPath},
			{"update-ca-certificates"},
		}
		require.Equal(t, want, sysFS.cmds)

		blk, _ := pem.Decode(sysFS.stdin[0])
		require.NotNil(t, blk)
		require.Equal(t, ca.Raw, blk.Bytes)
	})

	t.Run("fedora", func(t *testing.T) {
		fedora := fstest.MapFS{"etc/pki/ca-trust/source/anchors/.keep": {}}
		sysFS := &recordFS{StatFS: fedora}

		outcomes, err := NewPlatform("/home/test", fedora, sysFS).InstallCA(context.Background(), ca)
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		require.Equal(t, StatusInstalled, outcomes[0].Status)

		if want, got := []string{"update-ca-trust", "extract"}, sysFS.cmds[1]; !slices.Equal(want, got) {
			t.Errorf("want refresh command %q, got %q", want, got)
		}
	})

	t.Run("unknown-distro", func(t *testing.T) {
		sysFS := &recordFS{StatFS: fstest.MapFS{}}

		outcomes, err := NewPlatform("/home/test", fstest.MapFS{}, sysFS).InstallCA(context.Background(), ca)
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		require.Equal(t, StatusSkipped, outcomes[0].Status)
		require.ErrorIs(t, outcomes[0].Reason, ErrUnsupportedPlatform)
		require.Empty(t, sysFS.cmds)
	})

	t.Run("sudo-failure", func(t *testing.T) {
		errSudo := errors.New("exit status 1")
		sysFS := &recordFS{StatFS: debian, sudoErr: errSudo}

		outcomes, err := NewPlatform("/home/test", debian, sysFS).InstallCA(context.Background(), ca)
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		require.Equal(t, StatusFailed, outcomes[0].Status)
		require.Equal(t, debianPath, outcomes[0].Location)
		require.ErrorIs(t, outcomes[0].Reason, errSudo)
	})
}
