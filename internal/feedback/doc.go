// Package feedback renders request outcomes into page regions.
//
// Display writes error, success and loading fragments into regions addressed
// by id. A region that cannot be found is logged and skipped, never reported
// as a failure. Fetcher wraps a req client: failed requests are rendered into
// an optional region and then returned to the caller as errors, so callers
// still decide how control flow continues.
package feedback
