// Package probe checks endpoints and describes the ones that fail.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/imroc/req/v3"

	"github.com/tbckr/statuspane/internal/apperr"
	"github.com/tbckr/statuspane/internal/descriptor"
)

// Service probes URLs with GET requests.
type Service struct {
	client *req.Client
	logger *slog.Logger
}

// NewService creates a probe service with the given HTTP client and logger.
func NewService(client *req.Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Run GETs rawURL. Non-2xx responses are not errors: they produce a Result
// carrying the parsed descriptor. Only invalid input and transport failures
// return an error.
func (s *Service) Run(ctx context.Context, rawURL string) (*Result, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	resp, err := s.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperr.ErrRequestFailed, rawURL, err)
	}

	result := &Result{URL: rawURL, Status: resp.StatusCode}
	if resp.IsSuccessState() {
		result.OK = true
		return result, nil
	}

	desc := descriptor.Parse(descriptor.FromReq(resp))
	s.logger.Debug("probe failed", "url", rawURL, "status", desc.Status, "code", desc.Code)
	result.Code = desc.Code
	result.Message = desc.Message
	return result, nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(rawURL string) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: must be an absolute http(s) URL: %q", apperr.ErrInvalidInput, rawURL)
	}
	return nil
}
