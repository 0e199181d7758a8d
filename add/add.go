// Package add implements the add command, which issues a leaf certificate
// signed by the profile root.
package add

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Killavus/devcert"
	"github.com/Killavus/devcert/add/models"
	"github.com/Killavus/devcert/certgen"
	"github.com/Killavus/devcert/certstore"
	"github.com/Killavus/devcert/ui"
)

var CmdAdd = devcert.NewCmd[Command](devcert.CmdRoot, "add", func(cmd *cobra.Command) {
	cfg := devcert.ConfigFromCmd(cmd)

	cmd.Args = cobra.ExactArgs(1)
	cmd.PreRun = func(_ *cobra.Command, args []string) {
		cfg.Add.Host = args[0]
	}
})

type Command struct {
	// Authority issues the leaf certificate. The zero value uses the
	// configured timestamp.
	Authority *certgen.Authority
}

func (c Command) UI() devcert.UI {
	return devcert.UI{
		RunTUI: c.run,
	}
}

func (c *Command) run(ctx context.Context, drv *ui.Driver) error {
	cfg := devcert.ConfigFromContext(ctx)

	drv.Activate(ctx, models.AddHeader(cfg.Add.Host, cfg.Profile))

	store, unlock, err := devcert.OpenStore(ctx, cfg)
	if err != nil {
		return ui.Failure("Could not open the profile store.", err,
			"Check the --root-dir and --profile flags.",
		)
	}
	defer unlock()

	_, err = c.Perform(ctx, drv, store, cfg.Add.Host)
	return err
}

// Perform issues and saves a certificate for host. Any previous certificate
// for host is replaced by one with a fresh key.
func (c *Command) Perform(ctx context.Context, drv *ui.Driver, store *certstore.Store, host string) (*certgen.LeafCertificate, error) {
	cfg := devcert.ConfigFromContext(ctx)
	log := devcert.LoggerFromContext(ctx).WithField("host", host)

	root, err := store.LoadRoot()
	if err != nil {
		return nil, ui.Failure("Could not load the root certificate.", err,
			"Run devcert install --overwrite to replace it.",
		)
	}
	if root == nil {
		return nil, ui.Failure(fmt.Sprintf("No root certificate for profile %s.", ui.Emphasize(store.Profile)),
			fmt.Errorf("profile %q: %w", store.Profile, certstore.ErrNoRoot),
			fmt.Sprintf("Run devcert install --profile %s first.", store.Profile),
		)
	}

	drv.Activate(ctx, &models.LeafIssue{Host: host})

	// an unreadable previous pair is replaced like a valid one
	prev, err := store.LoadLeaf(host, root)
	switch {
	case errors.Is(err, certstore.ErrInvalidName):
		return nil, err
	case err != nil:
		log.WithError(err).Warn("replacing unreadable certificate")
		drv.Send(models.LeafReplacingMsg{})
	case prev != nil:
		drv.Send(models.LeafReplacingMsg{})
	}

	leaf, err := c.authority(cfg).CreateLeaf(host, root)
	if err != nil {
		return nil, err
	}
	if err := store.Save(leaf); err != nil {
		return nil, err
	}

	drv.Send(models.LeafSavedMsg{
		CertPath: store.CertPath(leaf.Name()),
		KeyPath:  store.KeyPath(leaf.Name()),
		NotAfter: leaf.X509().NotAfter,
	})
	return leaf, nil
}

func (c *Command) authority(cfg *devcert.Config) *certgen.Authority {
	if c.Authority != nil {
		return c.Authority
	}
	return &certgen.Authority{Now: cfg.Timestamp}
}
