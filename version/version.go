package version

import (
	"context"
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/Killavus/devcert"
	"github.com/Killavus/devcert/version/models"
)

var CmdVersion = devcert.NewCmd[Command](devcert.CmdRoot, "version", func(cmd *cobra.Command) {
	cmd.Args = cobra.NoArgs
})

type Command struct{}

func (c Command) UI() devcert.UI {
	return devcert.UI{
		RunTTY: c.run,
	}
}

func (c Command) run(ctx context.Context, tty *termenv.Output) error {
	mdl := &models.Version{
		Arch:    devcert.Version.Arch,
		Commit:  devcert.Version.Commit,
		Date:    devcert.Version.Date,
		OS:      devcert.Version.Os,
		Version: devcert.Version.Version,
	}

	_, err := fmt.Fprint(tty, mdl.View())
	return err
}
