package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/imroc/req/v3"

	"github.com/tbckr/statuspane/internal/apperr"
	"github.com/tbckr/statuspane/internal/descriptor"
)

// Request describes one call made through Fetcher.
type Request struct {
	Method string
	URL    string
	// Only the first value of each header key is sent.
	Header http.Header
	Body   []byte
}

// StatusError is returned for non-2xx responses. Its message is always the
// status line; the parsed body is available through Descriptor.
type StatusError struct {
	Status     int
	StatusText string
	Descriptor descriptor.Descriptor
}

func (e *StatusError) Error() string {
	return descriptor.StatusLine(e.Status, e.StatusText)
}

// Unwrap lets errors.Is(err, apperr.ErrRequestFailed) match status failures.
func (e *StatusError) Unwrap() error {
	return apperr.ErrRequestFailed
}

// Fetcher issues requests and renders failures into page regions.
type Fetcher struct {
	client  *req.Client
	display *Display
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher. display receives failures for calls that name a region.
func NewFetcher(client *req.Client, display *Display, logger *slog.Logger) *Fetcher {
	return &Fetcher{client: client, display: display, logger: logger}
}

// Do sends r and decodes a successful JSON body into result (a pointer, or nil
// to discard the body). When regionID is non-empty, failures are rendered
// there before being returned:
//   - transport failures render the error message and wrap apperr.ErrRequestFailed;
//   - non-2xx responses render the parsed descriptor and return *StatusError;
//   - undecodable 2xx bodies render the decode error and wrap apperr.ErrDecode.
//
// Successful calls never touch the region.
func (f *Fetcher) Do(ctx context.Context, r Request, regionID string, result any) error {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	rq := f.client.R().SetContext(ctx)
	for key := range r.Header {
		rq.SetHeader(key, r.Header.Get(key))
	}
	if len(r.Body) > 0 {
		rq.SetBodyBytes(r.Body)
	}

	resp, err := rq.Send(method, r.URL)
	if err != nil {
		f.logger.Debug("request failed", "method", method, "url", r.URL, "error", err)
		f.render(regionID, err.Error(), "")
		return fmt.Errorf("%w: %w", apperr.ErrRequestFailed, err)
	}

	if !resp.IsSuccessState() {
		desc := descriptor.Parse(descriptor.FromReq(resp))
		if regionID != "" {
			f.render(regionID, desc.Message, desc.Code)
			f.logger.Error("API error", "code", desc.Code, "message", desc.Message, "status", desc.Status)
		}
		return &StatusError{
			Status:     resp.StatusCode,
			StatusText: descriptor.StatusText(resp.StatusCode, resp.Status),
			Descriptor: desc,
		}
	}

	if result == nil {
		return nil
	}
	body := resp.Bytes()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		f.render(regionID, err.Error(), "")
		return fmt.Errorf("%w: %w", apperr.ErrDecode, err)
	}
	return nil
}

func (f *Fetcher) render(regionID, message, code string) {
	if regionID == "" || f.display == nil {
		return
	}
	f.display.Error(regionID, message, code)
}
