package feedback

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tbckr/statuspane/internal/apperr"
	"github.com/tbckr/statuspane/internal/descriptor"
	"github.com/tbckr/statuspane/internal/fragment"
)

// DefaultClearAfter is how long a success fragment stays before auto-clear.
const DefaultClearAfter = 3000 * time.Millisecond

// SuccessMarker is the substring whose presence lets auto-clear empty a region.
const SuccessMarker = "success"

// DefaultErrorMessage is rendered by HandleAPIError when there is no response to describe.
const DefaultErrorMessage = "Request failed"

// ClearMatch selects how auto-clear decides the success fragment is still shown.
type ClearMatch string

const (
	// ClearMatchMarker clears when the region content still contains SuccessMarker.
	// Any later write that happens to mention "success" is cleared too.
	ClearMatchMarker ClearMatch = "marker"
	// ClearMatchExact clears only when the region still holds exactly what Success wrote.
	ClearMatchExact ClearMatch = "exact"
)

// Regions is the page surface Display writes to. *page.Document satisfies it.
type Regions interface {
	SetInnerHTML(id, markup string) error
	InnerHTML(id string) (string, bool)
	Clear(id string) error
}

// Options tunes Display. The zero value uses DefaultClearAfter and ClearMatchMarker.
type Options struct {
	ClearAfter time.Duration
	ClearMatch ClearMatch
}

// Display writes fragments into page regions.
type Display struct {
	regions Regions
	logger  *slog.Logger
	opts    Options
}

// NewDisplay creates a Display over regions.
func NewDisplay(regions Regions, logger *slog.Logger, opts Options) *Display {
	if opts.ClearAfter <= 0 {
		opts.ClearAfter = DefaultClearAfter
	}
	if opts.ClearMatch == "" {
		opts.ClearMatch = ClearMatchMarker
	}
	return &Display{regions: regions, logger: logger, opts: opts}
}

// Error renders an error fragment into the region. code may be empty.
func (d *Display) Error(id, message, code string) {
	markup, err := fragment.Error(message, code)
	if err != nil {
		d.logger.Error("rendering error fragment", "region", id, "error", err)
		return
	}
	d.write(id, markup)
}

// Success renders a success fragment and schedules it to be cleared after
// the configured delay. It returns nil when the region does not exist.
func (d *Display) Success(id, message string) *AutoClear {
	markup, err := fragment.Success(message)
	if err != nil {
		d.logger.Error("rendering success fragment", "region", id, "error", err)
		return nil
	}
	if !d.write(id, markup) {
		return nil
	}
	written, _ := d.regions.InnerHTML(id)

	ac := &AutoClear{done: make(chan struct{})}
	ac.timer = time.AfterFunc(d.opts.ClearAfter, func() {
		defer close(ac.done)
		current, ok := d.regions.InnerHTML(id)
		if !ok || !d.stillShowing(current, written) {
			d.logger.Debug("auto-clear skipped", "region", id)
			return
		}
		if err := d.regions.Clear(id); err != nil {
			d.logger.Debug("auto-clear failed", "region", id, "error", err)
			return
		}
		ac.cleared.Store(true)
	})
	return ac
}

func (d *Display) stillShowing(current, written string) bool {
	if d.opts.ClearMatch == ClearMatchExact {
		return current == written
	}
	return strings.Contains(current, SuccessMarker)
}

// Loading renders a spinner with message. An empty message uses fragment.DefaultLoadingMessage.
func (d *Display) Loading(id, message string) {
	markup, err := fragment.Loading(message)
	if err != nil {
		d.logger.Error("rendering loading fragment", "region", id, "error", err)
		return
	}
	d.write(id, markup)
}

// Clear empties the region. A missing region is silently ignored.
func (d *Display) Clear(id string) {
	if err := d.regions.Clear(id); err != nil && !errors.Is(err, apperr.ErrRegionNotFound) {
		d.logger.Error("clearing region", "region", id, "error", err)
	}
}

// HandleAPIError renders resp into the region when it is not a 2xx response.
// It returns false for successful responses and true otherwise. A nil resp
// renders defaultMessage (DefaultErrorMessage when empty).
func (d *Display) HandleAPIError(resp *http.Response, id, defaultMessage string) bool {
	if resp == nil {
		if defaultMessage == "" {
			defaultMessage = DefaultErrorMessage
		}
		d.Error(id, defaultMessage, "")
		d.logger.Error("API error without response", "region", id)
		return true
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false
	}
	desc := descriptor.Parse(descriptor.FromHTTP(resp))
	d.Error(id, desc.Message, desc.Code)
	d.logger.Error("API error", "code", desc.Code, "message", desc.Message, "status", desc.Status)
	return true
}

// write reports whether the region was found and updated.
func (d *Display) write(id, markup string) bool {
	err := d.regions.SetInnerHTML(id, markup)
	switch {
	case err == nil:
		return true
	case errors.Is(err, apperr.ErrRegionNotFound):
		d.logger.Error("container not found", "region", id)
	default:
		d.logger.Error("writing region", "region", id, "error", err)
	}
	return false
}

// AutoClear is the pending auto-clear of a success fragment.
type AutoClear struct {
	timer   *time.Timer
	done    chan struct{}
	cleared atomic.Bool
}

// Stop cancels the pending clear. It reports whether the clear was still pending.
func (a *AutoClear) Stop() bool {
	if a.timer.Stop() {
		close(a.done)
		return true
	}
	return false
}

// Done is closed once the clear has run or been stopped.
func (a *AutoClear) Done() <-chan struct{} {
	return a.done
}

// Cleared reports whether the auto-clear emptied the region.
func (a *AutoClear) Cleared() bool {
	return a.cleared.Load()
}
