package devcert

import (
	"github.com/spf13/cobra"
)

var CmdRoot = NewCmd[ShowHelp](nil, "devcert", func(cmd *cobra.Command) {
	cfg := ConfigFromCmd(cmd)

	cmd.PersistentFlags().BoolVarP(&cfg.NonInteractive, "non-interactive", "n", cfg.NonInteractive, "Run without ever asking for user input.")
	cmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log to stderr.")
	cmd.PersistentFlags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to this file.")
	cmd.PersistentFlags().StringVarP(&cfg.Profile, "profile", "p", cfg.Profile, "Certificate profile to use.")
	cmd.PersistentFlags().StringVar(&cfg.RootDir, "root-dir", cfg.RootDir, "Directory holding the certificate profiles. (default <user config dir>/devcert)")
})

// ShowHelp calls cmd.Help() inside RunE instead of RunTUI

type ShowHelp struct{}

func (c ShowHelp) UI() UI {
	return UI{}
}
