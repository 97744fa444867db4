// Package httpclient builds the req client used by every outbound request.
package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/tbckr/statuspane/internal/version"
)

// DefaultUserAgent is the User-Agent sent when no explicit value is configured.
// var (not const) because version.Version is a link-time variable.
var DefaultUserAgent = "statuspane/" + version.Version + " (+https://github.com/tbckr/statuspane)"

// DefaultTimeout bounds a single request including redirects and body read.
const DefaultTimeout = 30 * time.Second

// debugBodyLimit caps how much of an error body the debug hook logs.
const debugBodyLimit = 512

// impersonatePresets are the preset names for which req provides a full ImpersonateXxx()
// method that sets TLS fingerprint, HTTP/2 settings, header order, and User-Agent atomically.
var impersonatePresets = map[string]bool{
	"chrome":  true,
	"firefox": true,
	"safari":  true,
}

// tlsFingerprintPresets are all preset names accepted by --user-agent and --tls-fingerprint.
var tlsFingerprintPresets = map[string]bool{
	"chrome": true, "firefox": true, "safari": true,
	"edge": true, "ios": true, "android": true, "randomized": true,
}

// Options configures New. The zero value yields a plain client with
// DefaultUserAgent, DefaultTimeout and proxies from the environment.
type Options struct {
	Proxy          string
	UserAgent      string
	TLSFingerprint string
	Timeout        time.Duration
}

// PresetNames returns the sorted browser preset names, for shell completion.
func PresetNames() []string {
	names := make([]string, 0, len(tlsFingerprintPresets)-1)
	for name := range tlsFingerprintPresets {
		if name != "randomized" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ResolveUserAgent returns the User-Agent value shown by config show/get.
//
// Resolution order:
//  1. userAgent is an impersonate preset → preset name (req manages the UA string)
//  2. userAgent is a TLS-only preset → DefaultUserAgent
//  3. userAgent is a non-empty custom string → as-is
//  4. tlsFingerprint is an impersonate preset → preset name
//  5. otherwise → DefaultUserAgent
func ResolveUserAgent(userAgent, tlsFingerprint string) string {
	switch {
	case impersonatePresets[userAgent]:
		return userAgent
	case tlsFingerprintPresets[userAgent]:
		return DefaultUserAgent
	case userAgent != "":
		return userAgent
	case impersonatePresets[tlsFingerprint]:
		return tlsFingerprint
	}
	return DefaultUserAgent
}

// ResolveTLSFingerprint returns the TLS fingerprint that will actually be used:
// an explicit value wins, then a preset named by userAgent, else "" (Go default TLS).
func ResolveTLSFingerprint(userAgent, tlsFingerprint string) string {
	if tlsFingerprint != "" {
		return tlsFingerprint
	}
	if tlsFingerprintPresets[userAgent] {
		return userAgent
	}
	return ""
}

// ResolveProxy returns the configured proxy, "<from environment>" when one of
// the standard proxy variables is set, or "".
func ResolveProxy(proxy string) string {
	if proxy != "" {
		return proxy
	}
	for _, env := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy", "ALL_PROXY", "all_proxy"} {
		if os.Getenv(env) != "" {
			return "<from environment>"
		}
	}
	return ""
}

// New builds a *req.Client from opts.
// When debug is true and logger is non-nil, every response is logged at DEBUG level.
// Returns an error if the proxy URL is invalid or the TLS fingerprint is unknown.
func New(opts Options, logger *slog.Logger, debug bool) (*req.Client, error) {
	resolvedTLS := ResolveTLSFingerprint(opts.UserAgent, opts.TLSFingerprint)
	isCustomUA := opts.UserAgent != "" && !tlsFingerprintPresets[opts.UserAgent]

	client := req.NewClient()

	switch resolvedTLS {
	case "chrome":
		client.ImpersonateChrome()
	case "firefox":
		client.ImpersonateFirefox()
	case "safari":
		client.ImpersonateSafari()
	case "edge":
		client.SetTLSFingerprintEdge()
	case "ios":
		client.SetTLSFingerprintIOS()
	case "android":
		client.SetTLSFingerprintAndroid()
	case "randomized":
		client.SetTLSFingerprintRandomized()
	case "":
	default:
		return nil, fmt.Errorf("unknown TLS fingerprint %q", resolvedTLS)
	}

	if isCustomUA {
		client.SetUserAgent(opts.UserAgent)
	} else if !impersonatePresets[resolvedTLS] {
		client.SetUserAgent(DefaultUserAgent)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client.SetTimeout(timeout)

	if opts.Proxy != "" {
		if err := validateProxy(opts.Proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		client.SetProxyURL(opts.Proxy)
	} else {
		client.SetProxy(http.ProxyFromEnvironment)
	}

	if debug && logger != nil {
		attachDebugHook(client, logger)
	}

	return client, nil
}

// attachDebugHook logs method, URL and status of every response, plus a
// snippet of the body for non-2xx responses.
func attachDebugHook(client *req.Client, logger *slog.Logger) {
	client.OnAfterResponse(func(_ *req.Client, resp *req.Response) error {
		if resp.Request == nil || resp.Request.RawRequest == nil {
			return nil
		}
		logger.Debug("http response",
			"method", resp.Request.RawRequest.Method,
			"url", resp.Request.RawRequest.URL.String(),
			"status", resp.StatusCode,
		)
		if !resp.IsSuccessState() {
			body := resp.String()
			if len(body) > debugBodyLimit {
				body = body[:debugBodyLimit]
			}
			logger.Debug("http error body", "status", resp.StatusCode, "body", body)
		}
		return nil
	})
}

func validateProxy(proxy string) error {
	for _, scheme := range []string{"http://", "https://", "socks5://"} {
		if strings.HasPrefix(proxy, scheme) {
			return nil
		}
	}
	return fmt.Errorf("proxy scheme must be http://, https://, or socks5://")
}
