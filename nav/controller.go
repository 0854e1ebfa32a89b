// Package nav implements the pagination state machine that drives a
// viewer session: an index over the extracted unit sequence, clamped
// navigation, orthogonal UI flags, and keyboard bindings.
package nav

import (
	"context"
	"errors"

	"github.com/inkleaf/pageturn/model"
)

// State is the controller's lifecycle state.
type State int

const (
	// Loading means a fetch-and-parse is in progress; no index is valid
	// and navigation is disabled.
	Loading State = iota
	// Ready means units are loaded and the index is valid.
	Ready
	// Failed means the load failed; retry and download are the only
	// available actions.
	Failed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Flags are the orthogonal UI toggles. They are independent of the
// navigation index: toggling them never moves the current position.
type Flags struct {
	Fullscreen bool
	DarkMode   bool
	TOCVisible bool
	FontSize   int // relative steps from the default size
}

// LoadFunc runs the full fetch-and-parse sequence for a document and
// returns its units and table of contents.
type LoadFunc func(ctx context.Context) ([]model.Unit, *model.TOC, error)

// ErrNotReady is returned by navigation calls outside the Ready state.
var ErrNotReady = errors.New("nav: controller is not ready")

// Controller tracks the viewer position over a loaded unit sequence.
// A Controller belongs to a single viewer session and is not safe for
// concurrent use.
type Controller struct {
	load  LoadFunc
	state State
	units []model.Unit
	toc   *model.TOC
	index int
	err   error
	flags Flags
}

// New creates a controller in the Loading state. Call Load to run the
// initial fetch-and-parse.
func New(load LoadFunc) *Controller {
	return &Controller{load: load, state: Loading}
}

// Load runs the load function and moves to Ready on success or Failed on
// error. Each call runs the full sequence exactly once; nothing from a
// failed attempt carries over.
func (c *Controller) Load(ctx context.Context) error {
	c.state = Loading
	c.units = nil
	c.toc = nil
	c.index = 0
	c.err = nil

	units, toc, err := c.load(ctx)
	if err != nil {
		c.state = Failed
		c.err = err
		return err
	}
	if len(units) == 0 {
		c.state = Failed
		c.err = errors.New("nav: load returned no units")
		return c.err
	}

	if toc == nil {
		toc = model.FromUnits("", units)
	}
	c.units = units
	c.toc = toc
	c.state = Ready
	return nil
}

// Retry re-runs the full load. Only meaningful from the Failed state;
// calling it while Ready reloads the document.
func (c *Controller) Retry(ctx context.Context) error {
	return c.Load(ctx)
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Err returns the load error when in the Failed state.
func (c *Controller) Err() error { return c.err }

// Len returns the number of units, or 0 outside Ready.
func (c *Controller) Len() int { return len(c.units) }

// Index returns the current position. Valid only in Ready.
func (c *Controller) Index() int { return c.index }

// Unit returns the current unit.
func (c *Controller) Unit() (*model.Unit, error) {
	if c.state != Ready {
		return nil, ErrNotReady
	}
	return &c.units[c.index], nil
}

// Units returns the full unit sequence. Valid only in Ready.
func (c *Controller) Units() []model.Unit {
	if c.state != Ready {
		return nil
	}
	return c.units
}

// TOC returns the jump list. Valid only in Ready.
func (c *Controller) TOC() *model.TOC {
	if c.state != Ready {
		return nil
	}
	return c.toc
}

// Next advances one unit, clamped at the end. At the last unit it is a
// no-op.
func (c *Controller) Next() {
	if c.state != Ready {
		return
	}
	if c.index < len(c.units)-1 {
		c.index++
	}
}

// Prev moves back one unit, clamped at the start. At the first unit it
// is a no-op.
func (c *Controller) Prev() {
	if c.state != Ready {
		return
	}
	if c.index > 0 {
		c.index--
	}
}

// JumpTo moves to an absolute position. An index outside [0, Len()-1] is
// a no-op and leaves the state unchanged.
func (c *Controller) JumpTo(index int) {
	if c.state != Ready {
		return
	}
	if index < 0 || index >= len(c.units) {
		return
	}
	c.index = index
}

// Flags returns the current UI flags.
func (c *Controller) Flags() Flags { return c.flags }

// ToggleFullscreen flips the fullscreen flag.
func (c *Controller) ToggleFullscreen() { c.flags.Fullscreen = !c.flags.Fullscreen }

// ToggleDarkMode flips the dark-mode flag.
func (c *Controller) ToggleDarkMode() { c.flags.DarkMode = !c.flags.DarkMode }

// ToggleTOC flips the table-of-contents visibility flag.
func (c *Controller) ToggleTOC() { c.flags.TOCVisible = !c.flags.TOCVisible }

// AdjustFontSize moves the font size by delta steps, clamped to [-3, 5].
func (c *Controller) AdjustFontSize(delta int) {
	c.flags.FontSize += delta
	if c.flags.FontSize < -3 {
		c.flags.FontSize = -3
	}
	if c.flags.FontSize > 5 {
		c.flags.FontSize = 5
	}
}
