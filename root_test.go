package devcert_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Killavus/devcert"
	"github.com/Killavus/devcert/cmdtest"
	_ "github.com/Killavus/devcert/testflags"
)

func TestCmdRoot(t *testing.T) {
	t.Run("--help", func(t *testing.T) {
		help := cmdtest.TestHelp(t, devcert.CmdRoot, "--help")
		require.Contains(t, help, "devcert manages a local certificate authority for development.")
		require.Contains(t, help, "--non-interactive")
		require.Contains(t, help, "--root-dir")
	})

	t.Run("no-command", func(t *testing.T) {
		help := cmdtest.TestHelp(t, devcert.CmdRoot)
		require.Contains(t, help, "Usage:")
	})

	t.Run("default --profile", func(t *testing.T) {
		cfg := cmdtest.TestCfg(t, devcert.CmdRoot)
		require.Equal(t, "default", cfg.Profile)
		require.False(t, cfg.NonInteractive)
	})

	t.Run("-p work -n -v", func(t *testing.T) {
		cfg := cmdtest.TestCfg(t, devcert.CmdRoot, "-p", "work", "-n", "-v")
		require.Equal(t, "work", cfg.Profile)
		require.True(t, cfg.NonInteractive)
		require.True(t, cfg.Verbose)
	})

	t.Run("--root-dir --log-file", func(t *testing.T) {
		cfg := cmdtest.TestCfg(t, devcert.CmdRoot, "--root-dir", "/srv/devcert", "--log-file", "/tmp/devcert.log")
		require.Equal(t, "/srv/devcert", cfg.RootDir)
		require.Equal(t, "/tmp/devcert.log", cfg.LogFile)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("DEVCERT_PROFILE", "from-env")

		cfg := cmdtest.TestCfg(t, devcert.CmdRoot)
		require.Equal(t, "from-env", cfg.Profile)
	})

	t.Run("flag-over-env", func(t *testing.T) {
		t.Setenv("DEVCERT_PROFILE", "from-env")

		cfg := cmdtest.TestCfg(t, devcert.CmdRoot, "--profile", "from-flag")
		require.Equal(t, "from-flag", cfg.Profile)
	})
}
