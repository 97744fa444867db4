package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbckr/statuspane/internal/output"
	"github.com/tbckr/statuspane/internal/version"
)

func newVersionCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the statuspane version",
		Args:    cobra.NoArgs,
		GroupID: "utility",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Current()
			if output.Format(d.cfg.Output) == output.FormatJSON {
				return output.Write(cmd.OutOrStdout(), output.FormatJSON, info)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		},
	}
}
