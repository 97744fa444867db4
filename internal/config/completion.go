package config

import (
	"github.com/spf13/cobra"

	"github.com/tbckr/statuspane/internal/httpclient"
)

// CompleteOutputFormat provides shell completion candidates for the --output flag.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return OutputFormats(), cobra.ShellCompDirectiveNoFileComp
}

// CompleteClearMatch provides shell completion candidates for the --clear-match flag.
func CompleteClearMatch(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return ClearMatchModes(), cobra.ShellCompDirectiveNoFileComp
}

// CompleteTLSFingerprint provides shell completion candidates for --tls-fingerprint and --user-agent.
func CompleteTLSFingerprint(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return httpclient.PresetNames(), cobra.ShellCompDirectiveNoFileComp
}

// RegisterFlagCompletions wires the completion functions onto cmd's persistent flags.
func RegisterFlagCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("output", CompleteOutputFormat)
	_ = cmd.RegisterFlagCompletionFunc("clear-match", CompleteClearMatch)
	_ = cmd.RegisterFlagCompletionFunc("tls-fingerprint", CompleteTLSFingerprint)
	_ = cmd.RegisterFlagCompletionFunc("user-agent", CompleteTLSFingerprint)
}
