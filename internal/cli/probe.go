package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbckr/statuspane/internal/output"
	"github.com/tbckr/statuspane/internal/probe"
	"github.com/tbckr/statuspane/internal/worker"
)

func newProbeCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "probe [url...]",
		Short: "Check URLs and describe the ones that fail",
		Long: `GET each URL and report its status. Failed responses are described with the
code and message parsed from their error body.

URLs are taken from the arguments, or one per line from stdin when no
arguments are given. Requests run concurrently (--concurrency) and share the
configured rate limit. The command exits non-zero when any probe fails.`,
		Example: `  statuspane probe https://api.example.com/health https://api.example.com/ready
  cat urls.txt | statuspane probe -o json`,
		GroupID: "network",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := args
			if len(inputs) == 0 {
				stdin := cmd.InOrStdin()
				if output.IsTerminal(stdin) {
					return fmt.Errorf("no URLs given: pass them as arguments or pipe them on stdin")
				}
				var err error
				if inputs, err = worker.ReadInputs(stdin); err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				if len(inputs) == 0 {
					return fmt.Errorf("no URLs given: stdin was empty")
				}
			}

			client, err := d.newHTTPClient()
			if err != nil {
				return err
			}
			svc := probe.NewService(client, d.logger)

			results := worker.Run(cmd.Context(), inputs, d.cfg.Concurrency, func(ctx context.Context, u string) (*probe.Result, error) {
				return svc.Run(ctx, u)
			})

			multi := &probe.MultiResult{Results: make([]*probe.Result, 0, len(results))}
			for _, r := range results {
				if r.Err != nil {
					d.logger.Debug("probe error", "url", r.Input, "error", r.Err)
					multi.Results = append(multi.Results, &probe.Result{URL: r.Input, Error: r.Err.Error()})
					continue
				}
				multi.Results = append(multi.Results, r.Output)
			}

			if err := writeResult(cmd.OutOrStdout(), d, multi); err != nil {
				return err
			}
			if n := multi.Failed(); n > 0 {
				return fmt.Errorf("%d of %d probes failed", n, len(multi.Results))
			}
			return nil
		},
	}
}
