package devcert

import (
	"context"
	"errors"

	"github.com/MakeNowJust/heredoc"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Killavus/devcert/stacktrace"
	"github.com/Killavus/devcert/ui"
)

type CmdDef struct {
	Name string

	Use   string
	Short string
	Long  string

	SubDefs []CmdDef
}

var rootDef = CmdDef{
	Name: "devcert",

	Use:   "devcert <command> [flags]",
	Short: "devcert - local development certificates",
	Long: heredoc.Doc(`
		devcert manages a local certificate authority for development.

		It creates a root certificate per profile, installs it into the local trust
		stores and issues leaf certificates for local hostnames and IP addresses.
	`),

	SubDefs: []CmdDef{
		{
			Name: "install",

			Use:   "install [flags]",
			Short: "Create the profile root certificate and trust it",
			Long: heredoc.Doc(`
				Create the root certificate of the selected profile, or reuse the existing
				one, and install it into the selected trust stores.

				An existing root certificate is only replaced after confirmation or with
				--overwrite. Trust stores that are unsupported on this system are skipped.
			`),
		},
		{
			Name: "add",

			Use:   "add <host> [flags]",
			Short: "Issue a certificate for a hostname or IP address",
			Long: heredoc.Doc(`
				Issue a leaf certificate for the host, signed by the profile root
				certificate. Run "devcert install" first to create the root.

				The certificate and its key are written to <host>.pem and <host>.key.pem in
				the profile directory, replacing any previous pair.
			`),
		},
		{
			Name: "version",

			Use:   "version",
			Short: "Show version info",
		},
	},
}

var cmdDefByCommands = map[*cobra.Command]*CmdDef{}

// configErr is the error from loading the root configuration, reported when
// a command runs.
var configErr error

type UIer interface {
	UI() UI
}

// NewCmd builds the command named by the CmdDef tree. Subcommands share
// their parent's Config.
func NewCmd[T UIer](parent *cobra.Command, name string, fn func(*cobra.Command)) *cobra.Command {
	var (
		def *CmdDef
		cfg *Config
	)
	if parent != nil {
		parentDef, ok := cmdDefByCommands[parent]
		if !ok {
			panic("unregistered parent command")
		}
		for _, sub := range parentDef.SubDefs {
			if sub.Name == name {
				def = &sub
				break
			}
		}
		if def == nil {
			panic("missing subcommand definition")
		}

		cfg = ConfigFromCmd(parent)
	} else {
		def = &rootDef

		cfg = DefaultConfig()
		configErr = cfg.Load()
	}

	cmd := &cobra.Command{
		Use:   def.Use,
		Short: def.Short,
		Long:  def.Long,

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	if parent != nil {
		parent.AddCommand(cmd)
	}

	ctx := ContextWithConfig(context.Background(), cfg)
	cmd.SetContext(ctx)

	fn(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if configErr != nil {
			return configErr
		}

		cfg := ConfigFromCmd(cmd)
		if cfg.Test.SkipRunE {
			return nil
		}

		log, closeLog, err := NewLogger(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeLog()

		ctx := ContextWithLogger(cmd.Context(), log.WithField("command", cmd.CommandPath()))

		var t T
		cmdUI := t.UI()
		switch {
		case cmdUI.RunTTY != nil:
			return logPanic(log, stacktrace.CapturePanic(func() error {
				return cmdUI.RunTTY(ctx, termenv.NewOutput(cmd.OutOrStdout()))
			}))
		case cmdUI.RunTUI == nil:
			return cmd.Help()
		}

		ctx, cancel := context.WithCancelCause(ctx)
		defer cancel(nil)

		drv, prg := ui.NewDriverTUI(ctx, !cfg.NonInteractive)
		errc := make(chan error)

		go func() {
			defer close(errc)

			_, err := prg.Run()
			cancel(err)

			errc <- err
		}()

		err = logPanic(log, stacktrace.CapturePanic(func() error {
			return cmdUI.RunTUI(ctx, drv)
		}))
		if err != nil {
			var uierr ui.Error
			if errors.As(err, &uierr) {
				drv.Activate(ctx, uierr.Model)
				err = uierr.Err
			}
			log.WithError(err).Error("command failed")

			prg.Quit()

			<-errc
			return err
		}

		prg.Quit()

		return <-errc
	}

	cmdDefByCommands[cmd] = def
	return cmd
}

func logPanic(log logrus.FieldLogger, err error) error {
	var perr stacktrace.Error
	if errors.As(err, &perr) {
		log.WithField("stack", perr.Stack).Error("command panicked")
	}
	return err
}
