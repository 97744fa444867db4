package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/imroc/req/v3"
	"github.com/spf13/cobra"

	"github.com/tbckr/statuspane/internal/config"
	"github.com/tbckr/statuspane/internal/feedback"
	"github.com/tbckr/statuspane/internal/httpclient"
	"github.com/tbckr/statuspane/internal/output"
	"github.com/tbckr/statuspane/internal/ratelimit"
)

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger *slog.Logger
	cfg    *config.Config
}

// buildDeps resolves config and logger.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	logger.Debug("configuration loaded",
		"config_file", cfg.ConfigFile,
		"output", cfg.Output,
		"clear_after", cfg.ClearAfter,
		"clear_match", cfg.ClearMatch,
		"proxy", cfg.Proxy != "",
	)

	return &deps{cfg: cfg, logger: logger}, nil
}

// newHTTPClient creates a rate-limited client from the resolved config.
func (d *deps) newHTTPClient() (*req.Client, error) {
	client, err := httpclient.New(httpclient.Options{
		Proxy:          d.cfg.Proxy,
		UserAgent:      d.cfg.UserAgent,
		TLSFingerprint: d.cfg.TLSFingerprint,
		Timeout:        d.cfg.Timeout,
	}, d.logger, d.cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	retries := d.cfg.Retries
	if retries == 0 {
		retries = -1
	}
	httpclient.AttachRateLimit(client, ratelimit.New(d.cfg.RateLimit, d.cfg.RateBurst), httpclient.RetryOptions{Count: retries})
	return client, nil
}

// newDisplay creates a Display over regions using the configured auto-clear policy.
func (d *deps) newDisplay(regions feedback.Regions) *feedback.Display {
	return feedback.NewDisplay(regions, d.logger, feedback.Options{
		ClearAfter: d.cfg.ClearAfter,
		ClearMatch: feedback.ClearMatch(d.cfg.ClearMatch),
	})
}

// writeResult formats and writes a result to stdout.
func writeResult(stdout io.Writer, d *deps, result any) error {
	if err := output.Write(stdout, output.Format(d.cfg.Output), result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
