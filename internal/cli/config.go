package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tbckr/statuspane/internal/appdir"
	"github.com/tbckr/statuspane/internal/config"
	"github.com/tbckr/statuspane/internal/output"
)

func newConfigCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Read and write statuspane config file values",
		GroupID: "utility",
	}
	cmd.AddCommand(
		newConfigPathCmd(d),
		newConfigShowCmd(d),
		newConfigGetCmd(d),
		newConfigSetCmd(d),
		newConfigEditCmd(d),
	)
	return cmd
}

func newConfigPathCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), d.cfg.ConfigFile)
			return err
		},
	}
}

// settings is the effective configuration as key/value pairs in key order.
// Values come from the resolved config, so defaults, env vars and flags show
// through alongside what the file holds.
type settings struct {
	keys   []string
	values map[string]string
}

func effectiveSettings(cfg *config.Config) settings {
	s := settings{keys: config.ValidKeys(), values: make(map[string]string)}
	for _, k := range s.keys {
		s.values[k] = effectiveValue(cfg, k)
	}
	return s
}

func (s settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.values)
}

func (s settings) WriteText(w io.Writer) error {
	rows := make([][]string, 0, len(s.keys))
	for _, k := range s.keys {
		rows = append(rows, []string{k, s.values[k]})
	}
	return output.WriteTable(w, []string{"KEY", "VALUE"}, rows)
}

func (s settings) WritePlain(w io.Writer) error {
	for _, k := range s.keys {
		if _, err := fmt.Fprintf(w, "%s=%s\n", k, s.values[k]); err != nil {
			return err
		}
	}
	return nil
}

func effectiveValue(cfg *config.Config, key string) string {
	switch key {
	case "verbose":
		return strconv.FormatBool(cfg.Verbose)
	case "output":
		return cfg.Output
	case "proxy":
		return cfg.Proxy
	case "user_agent":
		return cfg.UserAgent
	case "tls_fingerprint":
		return cfg.TLSFingerprint
	case "timeout":
		return cfg.Timeout.String()
	case "rate_limit":
		return strconv.FormatFloat(cfg.RateLimit, 'g', -1, 64)
	case "rate_burst":
		return strconv.Itoa(cfg.RateBurst)
	case "retries":
		return strconv.Itoa(cfg.Retries)
	case "clear_after":
		return cfg.ClearAfter.String()
	case "clear_match":
		return cfg.ClearMatch
	case "concurrency":
		return strconv.Itoa(cfg.Concurrency)
	default:
		return ""
	}
}

func newConfigShowCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"cat"},
		Short:   "Display all effective config settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeResult(cmd.OutOrStdout(), d, effectiveSettings(d.cfg))
		},
	}
}

func completeConfigKey(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return config.ValidKeys(), cobra.ShellCompDirectiveNoFileComp
	case 1:
		return config.KeyCompletions(args[0]), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func newConfigGetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a config key",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeConfigKey(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			key := config.NormalizeKey(args[0])
			if err := config.ValidateKey(key); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), effectiveValue(d.cfg, key))
			return err
		},
	}
}

func newConfigSetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:               "set <key> <value>",
		Short:             "Set a config value and persist it to the config file",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeConfigKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := config.NormalizeKey(args[0])
			value, err := config.ParseValue(key, args[1])
			if err != nil {
				return err
			}
			return setFileValue(d.cfg.ConfigFile, key, value)
		},
	}
}

// setFileValue rewrites path with key set to value. Only keys already in the
// file are carried over; defaults never leak into it.
func setFileValue(path, key string, value any) error {
	raw := map[string]any{}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
	}
	raw[key] = value

	out, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := appdir.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func newConfigEditCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the config file in $EDITOR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = os.Getenv("VISUAL")
			}
			if editor == "" {
				editor = "vi"
			}
			c := exec.CommandContext(cmd.Context(), editor, d.cfg.ConfigFile) //nolint:gosec // editor comes from the user's environment
			c.Stdin = cmd.InOrStdin()
			c.Stdout = cmd.OutOrStdout()
			c.Stderr = cmd.ErrOrStderr()
			return c.Run()
		},
	}
}
