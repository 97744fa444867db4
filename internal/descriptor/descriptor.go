// Package descriptor turns failed HTTP responses into a best-effort
// {code, message, status} triple suitable for display.
package descriptor

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/imroc/req/v3"
	"github.com/tidwall/gjson"
)

// Fallback values used when the response body does not carry them.
const (
	CodeUnknown    = "UNKNOWN_ERROR"
	CodeParseError = "PARSE_ERROR"
	MessageUnknown = "An unknown error occurred"
)

// maxBodyBytes bounds how much of an error body FromHTTP reads.
const maxBodyBytes = 1 << 20

// Descriptor describes a single failed response.
type Descriptor struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Response is the subset of an HTTP response needed to describe a failure.
type Response struct {
	Status     int
	StatusText string
	Body       []byte
}

// StatusLine returns "HTTP {status}: {statusText}".
func (r Response) StatusLine() string {
	return StatusLine(r.Status, r.StatusText)
}

// StatusLine formats a status code and reason phrase the way the request
// wrapper reports failures.
func StatusLine(status int, statusText string) string {
	return fmt.Sprintf("HTTP %d: %s", status, statusText)
}

// Parse never fails. A body that is not valid JSON, or is JSON null, yields a
// PARSE_ERROR descriptor carrying the status line. Any other JSON value is
// read for "code" and "message", and whatever is missing falls back to
// UNKNOWN_ERROR and MessageUnknown, so arrays and scalars get both defaults.
//
// When "code" is absent, a truthy "errorCode" member is used in its place:
// {"errorCode":1001} gives Code "1001" rather than UNKNOWN_ERROR.
func Parse(resp Response) Descriptor {
	if !gjson.ValidBytes(resp.Body) {
		return parseError(resp)
	}
	doc := gjson.ParseBytes(resp.Body)
	if doc.Type == gjson.Null {
		return parseError(resp)
	}

	d := Descriptor{Code: CodeUnknown, Message: MessageUnknown, Status: resp.Status}
	if !doc.IsObject() {
		return d
	}

	code := doc.Get("code")
	if !code.Exists() {
		// Some backends send an integer errorCode instead.
		code = doc.Get("errorCode")
	}
	if truthy(code) {
		d.Code = text(code)
	}
	if msg := doc.Get("message"); truthy(msg) {
		d.Message = text(msg)
	}
	return d
}

func parseError(resp Response) Descriptor {
	return Descriptor{
		Code:    CodeParseError,
		Message: resp.StatusLine(),
		Status:  resp.Status,
	}
}

// truthy mirrors how loosely-typed clients treat JSON values in a boolean
// context: empty strings, zero, false and null are all "absent".
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}

func text(r gjson.Result) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return r.Raw
}

// FromHTTP reads up to 1 MiB of resp.Body. The caller still owns closing it.
// A body read error leaves Body with whatever was read, which then fails to
// parse and produces a PARSE_ERROR descriptor.
func FromHTTP(resp *http.Response) Response {
	if resp == nil {
		return Response{}
	}
	out := Response{
		Status:     resp.StatusCode,
		StatusText: StatusText(resp.StatusCode, resp.Status),
	}
	if resp.Body != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		out.Body = body
	}
	return out
}

// FromReq reuses the body bytes already buffered by the req client.
func FromReq(resp *req.Response) Response {
	if resp == nil || resp.Response == nil {
		return Response{}
	}
	return Response{
		Status:     resp.StatusCode,
		StatusText: StatusText(resp.StatusCode, resp.Status),
		Body:       resp.Bytes(),
	}
}

// StatusText extracts the reason phrase from a "404 Not Found" style status
// string, falling back to the canonical text for the code.
func StatusText(code int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if reason == "" {
		return http.StatusText(code)
	}
	return reason
}
