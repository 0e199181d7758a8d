// Package cmdtest runs cobra commands in tests with a fresh Config.
package cmdtest

import (
	"bytes"
	"testing"

	"github.com/joeshaw/envdecode"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/Killavus/devcert"
)

// TestCfg resets the shared Config to the defaults and the environment,
// parses args without running the command and returns the Config.
//
// A slice flag keeps appending once it has been set, so only one test per
// process should set it.
func TestCfg(t *testing.T, cmd *cobra.Command, args ...string) *devcert.Config {
	cfg := resetCfg(t, cmd)
	cfg.Test.SkipRunE = true

	_, err := execute(cmd, args...)
	require.NoError(t, err)

	return cfg
}

func TestError(t *testing.T, cmd *cobra.Command, args ...string) error {
	cfg := resetCfg(t, cmd)
	cfg.Test.SkipRunE = true

	_, err := execute(cmd, args...)
	require.Error(t, err)

	return err
}

// TestHelp returns the help output for args.
func TestHelp(t *testing.T, cmd *cobra.Command, args ...string) string {
	resetCfg(t, cmd)

	b, err := execute(cmd, args...)
	require.NoError(t, err)

	return b.String()
}

func resetCfg(t *testing.T, cmd *cobra.Command) *devcert.Config {
	resetFlags(t, cmd.Root())

	cfg := devcert.ConfigFromCmd(cmd.Root())
	*cfg = *devcert.DefaultConfig()
	cfg.File.Skip = true

	if err := envdecode.Decode(cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		t.Fatal(err)
	}
	return cfg
}

func execute(cmd *cobra.Command, args ...string) (*bytes.Buffer, error) {
	root := cmd.Root()

	b := new(bytes.Buffer)
	root.SetErr(b)
	root.SetOut(b)
	root.SetArgs(args)

	err := root.Execute()
	return b, err
}

// resetFlags clears the flags left set by an earlier execution of the
// command tree, including cobra's own --help.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}

		var err error
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			err = sv.Replace(nil)
		} else {
			err = f.Value.Set(f.DefValue)
		}
		if err != nil {
			t.Fatalf("reset flag --%s: %v", f.Name, err)
		}
		f.Changed = false
	}

	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(t, sub)
	}
}
