// Package config resolves statuspane settings from flags, environment
// variables (STATUSPANE_*) and the YAML config file, in that order of precedence.
package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tbckr/statuspane/internal/appdir"
	"github.com/tbckr/statuspane/internal/httpclient"
)

// EnvPrefix is prepended to upper-cased keys when reading the environment.
const EnvPrefix = "STATUSPANE"

// Defaults shared by flag registration and the config commands.
const (
	DefaultOutput      = "text"
	DefaultClearMatch  = "marker"
	DefaultConcurrency = 10
	DefaultRateLimit   = 10.0
	DefaultRateBurst   = 5
	DefaultRetries     = 3
	DefaultTimeout     = 30 * time.Second
	DefaultClearAfter  = 3000 * time.Millisecond
)

// Config is the fully-resolved runtime configuration.
type Config struct {
	ConfigFile     string
	Verbose        bool
	Output         string
	Proxy          string
	UserAgent      string
	TLSFingerprint string
	Timeout        time.Duration
	RateLimit      float64
	RateBurst      int
	Retries        int
	ClearAfter     time.Duration
	ClearMatch     string
	Concurrency    int
}

// OutputFormats lists the values accepted by --output.
func OutputFormats() []string { return []string{"text", "json", "plain"} }

// ClearMatchModes lists the values accepted by --clear-match.
func ClearMatchModes() []string { return []string{"marker", "exact"} }

// keys maps every config key to its type. Flag names use hyphens instead of underscores.
var keys = map[string]string{
	"verbose":         "bool",
	"output":          "string",
	"proxy":           "string",
	"user_agent":      "string",
	"tls_fingerprint": "string",
	"timeout":         "duration",
	"rate_limit":      "float",
	"rate_burst":      "int",
	"retries":         "int",
	"clear_after":     "duration",
	"clear_match":     "string",
	"concurrency":     "int",
}

// RegisterFlags adds every config flag plus --config to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file (default: $XDG_CONFIG_HOME/statuspane/config.yaml)")
	flags.BoolP("verbose", "v", false, "enable verbose logging (debug level)")
	flags.StringP("output", "o", DefaultOutput, "output format: text, json, plain")
	flags.String("proxy", "", "proxy URL (http://, https://, socks5://)")
	flags.String("user-agent", "", "User-Agent string or browser preset (chrome, firefox, safari, ...)")
	flags.String("tls-fingerprint", "", "TLS fingerprint preset (chrome, firefox, safari, edge, ios, android, randomized)")
	flags.Duration("timeout", DefaultTimeout, "per-request timeout")
	flags.Float64("rate-limit", DefaultRateLimit, "maximum requests per second (0 disables limiting)")
	flags.Int("rate-burst", DefaultRateBurst, "burst size for the request rate limiter")
	flags.Int("retries", DefaultRetries, "retries for HTTP 429 and transient transport errors on idempotent requests (0 or -1 disables)")
	flags.Duration("clear-after", DefaultClearAfter, "delay before a success message is cleared")
	flags.String("clear-match", DefaultClearMatch, "auto-clear check: marker (content mentions success) or exact (content unchanged)")
	flags.IntP("concurrency", "c", DefaultConcurrency, "number of concurrent workers for bulk requests")
}

// Load resolves the config file path, creates the file when missing, and
// merges file, environment and flag values.
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfgFile, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("reading --config: %w", err)
	}
	if cfgFile == "" {
		if cfgFile, err = appdir.DefaultConfigFile(); err != nil {
			return nil, err
		}
	}
	if err := appdir.EnsureFile(cfgFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for key := range keys {
		if f := flags.Lookup(FlagName(key)); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %q: %w", f.Name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
	}

	return &Config{
		ConfigFile:     cfgFile,
		Verbose:        v.GetBool("verbose"),
		Output:         v.GetString("output"),
		Proxy:          v.GetString("proxy"),
		UserAgent:      v.GetString("user_agent"),
		TLSFingerprint: v.GetString("tls_fingerprint"),
		Timeout:        v.GetDuration("timeout"),
		RateLimit:      v.GetFloat64("rate_limit"),
		RateBurst:      v.GetInt("rate_burst"),
		Retries:        v.GetInt("retries"),
		ClearAfter:     v.GetDuration("clear_after"),
		ClearMatch:     v.GetString("clear_match"),
		Concurrency:    v.GetInt("concurrency"),
	}, nil
}

// Validate checks values that flags and YAML cannot constrain on their own.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats(), c.Output) {
		return fmt.Errorf("invalid output format %q: must be one of: %s", c.Output, strings.Join(OutputFormats(), ", "))
	}
	if !slices.Contains(ClearMatchModes(), c.ClearMatch) {
		return fmt.Errorf("invalid clear match %q: must be one of: %s", c.ClearMatch, strings.Join(ClearMatchModes(), ", "))
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.ClearAfter <= 0 {
		return fmt.Errorf("--clear-after must be positive, got %s", c.ClearAfter)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// FlagName converts a config key to its flag name ("user_agent" → "user-agent").
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// NormalizeKey converts a flag name to its config key ("user-agent" → "user_agent").
func NormalizeKey(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}

// ValidKeys returns every config key, sorted.
func ValidKeys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ValidateKey returns an error for keys statuspane does not know.
func ValidateKey(key string) error {
	if _, ok := keys[NormalizeKey(key)]; !ok {
		return fmt.Errorf("unknown config key %q: valid keys are %s", key, strings.Join(ValidKeys(), ", "))
	}
	return nil
}

// ParseValue converts raw to the typed value stored in the YAML file for key.
// Durations are kept as strings so the file stays human-editable.
func ParseValue(key, raw string) (any, error) {
	key = NormalizeKey(key)
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	switch keys[key] {
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: expected true or false, got %q", key, raw)
		}
		return b, nil
	case "int":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: expected an integer, got %q", key, raw)
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: expected a number, got %q", key, raw)
		}
		return f, nil
	case "duration":
		if _, err := time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("%s: expected a duration like 3s, got %q", key, raw)
		}
		return raw, nil
	}

	var allowed []string
	switch key {
	case "output":
		allowed = OutputFormats()
	case "clear_match":
		allowed = ClearMatchModes()
	}
	if allowed != nil && !slices.Contains(allowed, raw) {
		return nil, fmt.Errorf("%s: must be one of: %s", key, strings.Join(allowed, ", "))
	}
	return raw, nil
}

// KeyCompletions returns value suggestions for key, or nil when free-form.
func KeyCompletions(key string) []string {
	switch NormalizeKey(key) {
	case "verbose":
		return []string{"true", "false"}
	case "output":
		return OutputFormats()
	case "clear_match":
		return ClearMatchModes()
	case "tls_fingerprint":
		return append(httpclient.PresetNames(), "randomized")
	case "user_agent":
		return httpclient.PresetNames()
	}
	return nil
}
