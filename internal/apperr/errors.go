package apperr

import "errors"

// ErrInvalidInput is returned when a caller-supplied value fails validation
// (bad URL, malformed header, unknown region id syntax).
var ErrInvalidInput = errors.New("invalid input")

// ErrRequestFailed is returned by the request wrapper when the request fails at the
// transport level or the server responds with a non-2xx status code.
// Use errors.Is(err, apperr.ErrRequestFailed) to detect request failures uniformly.
var ErrRequestFailed = errors.New("request failed")

// ErrRegionNotFound is returned when no element with the requested id exists in the page.
var ErrRegionNotFound = errors.New("region not found")

// ErrDecode is returned when a successful response body cannot be decoded as JSON.
var ErrDecode = errors.New("decoding response body")
