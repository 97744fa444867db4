package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tbckr/statuspane/internal/apperr"
	"github.com/tbckr/statuspane/internal/feedback"
	"github.com/tbckr/statuspane/internal/probe"
)

// requestIDHeader correlates a fetch with server logs. A value given with
// --header is kept.
const requestIDHeader = "X-Request-ID"

func newFetchCmd(d *deps) *cobra.Command {
	var (
		opts    pageOptions
		method  string
		headers []string
		data    string
	)
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Send a request and render any failure into a page region",
		Long: `Send an HTTP request and decode its JSON response.

On success the decoded body is printed and the page is left alone. On failure
the error is rendered into --region of the page, the page is written to --out
(or stdout) and the command exits non-zero.

Error bodies of the form {"code": "...", "message": "..."} supply the code and
message shown in the region. Other bodies fall back to PARSE_ERROR and the
status line.`,
		Example: `  statuspane fetch https://api.example.com/items
  statuspane fetch -X POST -H 'Content-Type: application/json' -d '{"name":"x"}' \
      --page index.html --in-place https://api.example.com/items
  statuspane fetch -d @payload.json https://api.example.com/items`,
		Args:    cobra.ExactArgs(1),
		GroupID: "network",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := probe.ValidateURL(args[0]); err != nil {
				return err
			}
			if err := opts.validate(); err != nil {
				return err
			}
			header, err := parseHeaders(headers)
			if err != nil {
				return err
			}
			if header.Get(requestIDHeader) == "" {
				header.Set(requestIDHeader, uuid.NewString())
			}
			d.logger.Debug("sending request", "method", method, "url", args[0], "request_id", header.Get(requestIDHeader))
			body, err := readData(cmd.InOrStdin(), data)
			if err != nil {
				return err
			}

			doc, err := opts.load()
			if err != nil {
				return err
			}
			client, err := d.newHTTPClient()
			if err != nil {
				return err
			}
			fetcher := feedback.NewFetcher(client, d.newDisplay(doc), d.logger)

			var decoded any
			err = fetcher.Do(cmd.Context(), feedback.Request{
				Method: strings.ToUpper(method),
				URL:    args[0],
				Header: header,
				Body:   body,
			}, opts.Region, &decoded)
			if err != nil {
				if werr := opts.write(cmd, doc); werr != nil {
					return errors.Join(err, werr)
				}
				return err
			}
			return writeResult(cmd.OutOrStdout(), d, bodyResult{Body: decoded})
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, `request header as "Key: Value" (repeatable)`)
	cmd.Flags().StringVarP(&data, "data", "d", "", "request body; @file reads a file, @- reads stdin")
	return cmd
}

// parseHeaders turns "Key: Value" strings into an http.Header.
func parseHeaders(raw []string) (http.Header, error) {
	header := make(http.Header, len(raw))
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: header must look like \"Key: Value\": %q", apperr.ErrInvalidInput, h)
		}
		header.Set(key, strings.TrimSpace(value))
	}
	return header, nil
}

// readData resolves --data. A leading @ names a file, and @- means stdin.
func readData(stdin io.Reader, data string) ([]byte, error) {
	name, isFile := strings.CutPrefix(data, "@")
	if !isFile {
		return []byte(data), nil
	}
	if name == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading request body from stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return b, nil
}

// bodyResult wraps a decoded response body for the output formatters.
type bodyResult struct {
	Body any
}

func (r bodyResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Body)
}

// WriteText pretty-prints the body.
func (r bodyResult) WriteText(w io.Writer) error {
	if r.Body == nil {
		return nil
	}
	b, err := json.MarshalIndent(r.Body, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// WritePlain prints the body as compact single-line JSON.
func (r bodyResult) WritePlain(w io.Writer) error {
	if r.Body == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(r.Body); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
