// Package cli provides the Cobra command tree for statuspane.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/tbckr/statuspane/internal/config"
	"github.com/tbckr/statuspane/internal/version"
)

// newRootCmd builds the top-level Cobra command.
// Callers must set stdout/stderr via cmd.SetOut / cmd.SetErr before Execute.
func newRootCmd() *cobra.Command {
	// d is populated by PersistentPreRunE before any subcommand's RunE runs.
	// Cobra only executes the innermost PersistentPreRunE, so a subcommand
	// defining its own hook must not rely on d.
	var d deps

	cmd := &cobra.Command{
		Use:   "statuspane",
		Short: "Render request outcomes into HTML pages",
		Long: `statuspane wraps HTTP requests with consistent error parsing and renders
error, success and loading messages into id-addressed regions of an HTML page.

Failed requests are described as {code, message, status}: the code and message
come from the JSON error body when present, otherwise from the status line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d = *resolved
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	config.RegisterFlagCompletions(cmd)

	cmd.Version = version.Version
	cmd.SetVersionTemplate("statuspane version {{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: "network", Title: "Network Commands:"},
		&cobra.Group{ID: "display", Title: "Display Commands:"},
		&cobra.Group{ID: "utility", Title: "Utility Commands:"},
	)

	cmd.AddCommand(
		newFetchCmd(&d),
		newProbeCmd(&d),
		newRenderCmd(&d),
		newConfigCmd(&d),
		newCompletionCmd(),
		newVersionCmd(&d),
	)

	return cmd
}

// Execute builds the root command and runs it with args (excluding the program name).
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}
