package lifecycle

import (
	"log/slog"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/present"
)

// Transition delays. Open and close mirror the widget's CSS transitions;
// focus waits for the opening transition to render before moving input
// focus.
const (
	focusDelay      = 300 * time.Millisecond
	closeTransition = 300 * time.Millisecond
)

// CloseReason identifies what dismissed the popup.
type CloseReason string

const (
	CloseButton   CloseReason = "close_button"
	CloseBackdrop CloseReason = "backdrop"
	CloseEscape   CloseReason = "escape"
)

// MarkerStore is the controller's view of the visitor's session marker. It
// is read once at schedule time and written at most twice per lifecycle.
type MarkerStore interface {
	Get() (domain.ShownMarker, bool)
	Set(marker domain.ShownMarker)
}

// Hooks are the presentation side effects the controller drives. Nil hooks
// are skipped.
type Hooks struct {
	LockScroll      func(locked bool)
	FocusFirstField func()
	StateChanged    func(state domain.VisibilityState)
}

// Controller owns the single VisibilityState of one widget instance and
// governs when the popup may appear and how it closes.
type Controller struct {
	mu        sync.Mutex
	state     domain.VisibilityState
	shown     bool // once shown, never rescheduled this page load
	exitFired bool

	settings domain.Settings
	marker   MarkerStore
	clock    Clock
	hooks    Hooks
	logger   *slog.Logger
}

// NewController builds a controller in the Hidden state.
func NewController(settings domain.Settings, marker MarkerStore, clock Clock, hooks Hooks, logger *slog.Logger) *Controller {
	if clock == nil {
		clock = NewClock()
	}
	return &Controller{
		state:    domain.VisibilityHidden,
		settings: settings.Normalized(),
		marker:   marker,
		clock:    clock,
		hooks:    hooks,
		logger:   logger,
	}
}

// State returns the current visibility state.
func (c *Controller) State() domain.VisibilityState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Schedule arms the show-delay timer. If the marker is already set the
// controller stays Hidden permanently for this page load.
func (c *Controller) Schedule() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.VisibilityHidden || c.shown {
		return
	}

	if marker, ok := c.marker.Get(); ok && !marker.IsExpired() {
		c.logger.Debug("popup suppressed by marker", slog.String("value", marker.Value))
		return
	}

	c.state = domain.VisibilityScheduled
	c.notifyLocked()

	delay := time.Duration(c.settings.ShowDelay) * time.Millisecond
	c.clock.AfterFunc(delay, func() {
		c.show("timer")
	})
}

// ExitIntent handles a pointer leaving the top edge of the viewport. Wide
// viewports only, at most once, and only when showOnExit is enabled.
func (c *Controller) ExitIntent(viewportWidth, pointerY int) {
	if !c.settings.ShowOnExit {
		return
	}
	if viewportWidth <= present.DesktopBreakpoint {
		return
	}
	if pointerY > 0 {
		return
	}

	c.mu.Lock()
	if c.exitFired {
		c.mu.Unlock()
		return
	}
	c.exitFired = true
	c.mu.Unlock()

	c.show("exit_intent")
}

// show transitions Scheduled -> Visible. Guards are re-checked here because
// the show-delay timer and the exit-intent trigger race and neither is
// cancelled.
func (c *Controller) show(trigger string) {
	c.mu.Lock()
	if c.shown || c.state != domain.VisibilityScheduled {
		c.mu.Unlock()
		return
	}
	c.shown = true
	c.state = domain.VisibilityVisible
	c.notifyLocked()
	c.mu.Unlock()

	c.logger.Info("popup shown", slog.String("trigger", trigger))

	if c.hooks.LockScroll != nil {
		c.hooks.LockScroll(true)
	}

	// Let the opening transition render before moving focus.
	c.clock.AfterFunc(focusDelay, func() {
		if c.State() == domain.VisibilityVisible && c.hooks.FocusFirstField != nil {
			c.hooks.FocusFirstField()
		}
	})
}

// ForceShow bypasses the marker and the show delay. Debug surface only.
func (c *Controller) ForceShow() {
	c.mu.Lock()
	if c.state == domain.VisibilityVisible || c.state == domain.VisibilityClosing {
		c.mu.Unlock()
		return
	}
	c.shown = false
	c.state = domain.VisibilityScheduled
	c.notifyLocked()
	c.mu.Unlock()

	c.show("debug")
}

// Close transitions Visible -> Closing -> Hidden with the exit transition in
// between, then writes the dismissed marker. A marker already recording a
// conversion is never downgraded.
func (c *Controller) Close(reason CloseReason) {
	c.mu.Lock()
	if c.state != domain.VisibilityVisible {
		c.mu.Unlock()
		return
	}
	c.state = domain.VisibilityClosing
	c.notifyLocked()
	c.mu.Unlock()

	c.logger.Info("popup closing", slog.String("reason", string(reason)))

	if c.hooks.LockScroll != nil {
		c.hooks.LockScroll(false)
	}

	c.clock.AfterFunc(closeTransition, func() {
		c.mu.Lock()
		if c.state == domain.VisibilityClosing {
			c.state = domain.VisibilityHidden
			c.notifyLocked()
		}
		c.mu.Unlock()

		if _, ok := c.marker.Get(); !ok {
			c.marker.Set(domain.NewShownMarker(domain.MarkerDismissed, c.settings.CookieExpiryDays))
		}
	})
}

// notifyLocked fires the state hook. Caller holds the mutex.
func (c *Controller) notifyLocked() {
	if c.hooks.StateChanged != nil {
		c.hooks.StateChanged(c.state)
	}
}
