// Package install implements the install command: create or reuse the root
// certificate of a profile and install it into the trust stores.
package install

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Killavus/devcert"
	"github.com/Killavus/devcert/certgen"
	"github.com/Killavus/devcert/certstore"
	"github.com/Killavus/devcert/component"
	"github.com/Killavus/devcert/install/models"
	"github.com/Killavus/devcert/truststore"
	truststoremodels "github.com/Killavus/devcert/truststore/models"
	"github.com/Killavus/devcert/ui"
)

var CmdInstall = devcert.NewCmd[Command](devcert.CmdRoot, "install", func(cmd *cobra.Command) {
	cfg := devcert.ConfigFromCmd(cmd)

	cmd.Args = cobra.NoArgs

	cmd.Flags().BoolVar(&cfg.Install.Overwrite, "overwrite", cfg.Install.Overwrite, "Replace an existing root certificate without asking.")
	cmd.Flags().BoolVar(&cfg.Install.NoSudo, "no-sudo", cfg.Install.NoSudo, "Disable sudo prompts.")
	cmd.Flags().StringSliceVar(&cfg.Install.Stores, "trust-stores", cfg.Install.Stores, "Trust stores to update.")
})

const overwritePrompt = "Replace the existing root certificate?"

type Command struct {
	// Authority issues the root certificate. The zero value uses the
	// configured timestamp.
	Authority *certgen.Authority

	// Confirm decides whether an existing root is replaced. Defaults to a
	// prompt answering no.
	Confirm func(context.Context, *ui.Driver) (bool, error)

	// Targets overrides the trust stores selected by --trust-stores.
	Targets []truststore.Target
}

func (c Command) UI() devcert.UI {
	return devcert.UI{
		RunTUI: c.run,
	}
}

func (c *Command) run(ctx context.Context, drv *ui.Driver) error {
	cfg := devcert.ConfigFromContext(ctx)

	drv.Activate(ctx, models.InstallHeader(cfg.Profile))

	store, unlock, err := devcert.OpenStore(ctx, cfg)
	if err != nil {
		return ui.Failure("Could not open the profile store.", err,
			"Check the --root-dir and --profile flags.",
		)
	}
	defer unlock()

	if err := c.Perform(ctx, drv, store); err != nil {
		return err
	}

	drv.Activate(ctx, models.InstallDone(cfg.Profile))
	return nil
}

// Perform runs the install against an open store.
func (c *Command) Perform(ctx context.Context, drv *ui.Driver, store *certstore.Store) error {
	cfg := devcert.ConfigFromContext(ctx)
	log := devcert.LoggerFromContext(ctx)

	root, err := c.ensureRoot(ctx, cfg, drv, store)
	if err != nil {
		return err
	}

	targets := c.Targets
	if targets == nil {
		if targets, err = c.loadTargets(cfg, drv); err != nil {
			return err
		}
	}

	ca := truststore.NewCA(root.X509(), store.CertPath(certgen.RootName))

	drv.Activate(ctx, new(truststoremodels.TrustInstall))

	installer := &truststore.Installer{
		Targets: targets,
		Logger:  log,
	}
	report, err := installer.InstallRoot(ctx, ca)
	drv.Send(truststoremodels.ReportMsg{Report: report, Err: err})

	return err
}

func (c *Command) ensureRoot(ctx context.Context, cfg *devcert.Config, drv *ui.Driver, store *certstore.Store) (*certgen.RootCertificate, error) {
	drv.Activate(ctx, new(models.RootLoad))

	root, err := store.LoadRoot()
	if err != nil {
		return nil, ui.Failure("Could not load the root certificate.", err,
			"Remove the broken root.pem and root.key.pem and run install again.",
		)
	}

	if root != nil {
		drv.Send(models.RootFoundMsg{Path: store.CertPath(certgen.RootName)})

		overwrite := cfg.Install.Overwrite
		if !overwrite {
			if overwrite, err = c.confirm(ctx, cfg, drv); err != nil {
				return nil, err
			}
		}
		if !overwrite {
			drv.Activate(ctx, models.RootKept)
			return root, nil
		}
	} else {
		drv.Send(models.RootMissingMsg{})
	}

	drv.Activate(ctx, new(models.RootCreate))

	if root, err = c.authority(cfg).CreateRoot(cfg.Profile); err != nil {
		return nil, err
	}
	if err := store.Save(root); err != nil {
		return nil, err
	}

	drv.Send(models.RootSavedMsg{
		Path:   store.CertPath(certgen.RootName),
		Serial: root.X509().SerialNumber.Text(16),
	})
	return root, nil
}

func (c *Command) confirm(ctx context.Context, cfg *devcert.Config, drv *ui.Driver) (bool, error) {
	if c.Confirm != nil {
		return c.Confirm(ctx, drv)
	}

	prompt := &component.Confirm{
		Prompt:         overwritePrompt,
		NonInteractive: cfg.NonInteractive,
	}
	return prompt.Confirm(ctx, drv)
}

func (c *Command) authority(cfg *devcert.Config) *certgen.Authority {
	if c.Authority != nil {
		return c.Authority
	}
	return &certgen.Authority{Now: cfg.Timestamp}
}

func (c *Command) loadTargets(cfg *devcert.Config, drv *ui.Driver) ([]truststore.Target, error) {
	return truststore.LoadTargets(cfg.Install.Stores, truststore.TargetOptions{
		HomeDir: cfg.Test.HomeDir,
		NoSudo:  cfg.Install.NoSudo,

		AroundSudo: func(sudo func()) {
			unpausec := drv.Pause()
			defer close(unpausec)

			sudo()
		},
	})
}
