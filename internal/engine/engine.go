package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/analytics"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/lifecycle"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/present"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/submit"
)

// Region binding retry cadence. The host page builds the popup markup
// asynchronously; the engine waits for it a bounded number of times before
// giving up on this page load.
const (
	DefaultBindInterval    = time.Second
	DefaultBindMaxAttempts = 10
)

// RegionBinder resolves the popup's render regions. Bind is retried until it
// succeeds or the attempt budget runs out.
type RegionBinder interface {
	Bind() (present.Regions, error)
}

// BinderFunc adapts a function to the RegionBinder interface.
type BinderFunc func() (present.Regions, error)

func (f BinderFunc) Bind() (present.Regions, error) { return f() }

// SettingsSource is the engine's view of the configuration layer.
type SettingsSource interface {
	WaitReady(ctx context.Context, interval time.Duration, maxAttempts int) (domain.Settings, error)
}

// EventEmitter receives the widget's analytics events.
type EventEmitter interface {
	Emit(eventType string, record domain.SubmissionRecord)
	EmitVisitor(eventType, visitorID string)
}

// Options carries everything Bootstrap needs. Zero intervals and attempt
// counts fall back to defaults; a nil Clock uses the real one.
type Options struct {
	Settings   SettingsSource
	Binder     RegionBinder
	Markers    lifecycle.MarkerStore
	Account    submit.AccountCreator
	Newsletter submit.NewsletterSubscriber
	Analytics  EventEmitter
	Clock      lifecycle.Clock
	Hooks      lifecycle.Hooks
	Viewport   present.Viewport
	VisitorID  string

	ConfigPollInterval time.Duration
	ConfigMaxAttempts  int
	BindInterval       time.Duration
	BindMaxAttempts    int

	Logger *slog.Logger
}

// Engine wires one widget instance end to end: configuration, presentation,
// lifecycle and submission.
type Engine struct {
	settings     domain.Settings
	viewport     present.Viewport
	configurator *present.Configurator
	controller   *lifecycle.Controller
	pipeline     *submit.Pipeline
	analytics    EventEmitter
	visitorID    string
	logger       *slog.Logger
}

// Bootstrap brings a widget instance up:
//
//  1. Wait for configuration with a bounded retry budget
//  2. Bail out permanently when the widget is disabled
//  3. Bind the render regions, also with a bounded budget
//  4. Apply the presentation and arm the lifecycle controller
func Bootstrap(ctx context.Context, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 1. Configuration
	settings, err := opts.Settings.WaitReady(ctx, opts.ConfigPollInterval, opts.ConfigMaxAttempts)
	if err != nil {
		return nil, err
	}

	// 2. Disabled widgets never bind or schedule anything
	if !settings.Enabled {
		logger.Info("popup disabled by settings")
		return nil, domain.ErrWidgetDisabled
	}

	// 3. Regions
	regions, err := waitRegions(ctx, opts, logger)
	if err != nil {
		return nil, err
	}

	configurator, err := present.NewConfigurator(regions)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		settings:     settings,
		viewport:     opts.Viewport,
		configurator: configurator,
		analytics:    opts.Analytics,
		visitorID:    opts.VisitorID,
		logger:       logger,
	}

	// 4. Presentation, lifecycle, submission
	configurator.Apply(settings, opts.Viewport)

	hooks := opts.Hooks
	userStateChanged := hooks.StateChanged
	hooks.StateChanged = func(state domain.VisibilityState) {
		e.observeState(state)
		if userStateChanged != nil {
			userStateChanged(state)
		}
	}

	e.controller = lifecycle.NewController(settings, opts.Markers, opts.Clock, hooks, logger)

	chain := submit.NewChain(logger,
		submit.NewAccountStrategy(opts.Account),
		submit.NewNewsletterStrategy(opts.Newsletter),
	)
	e.pipeline = submit.NewPipeline(
		chain,
		opts.Markers,
		configurator,
		emitterAdapter{opts.Analytics},
		submit.Hooks{},
		settings.Normalized().CookieExpiryDays,
		logger,
	)

	e.controller.Schedule()
	return e, nil
}

func waitRegions(ctx context.Context, opts Options, logger *slog.Logger) (present.Regions, error) {
	interval := opts.BindInterval
	if interval <= 0 {
		interval = DefaultBindInterval
	}
	maxAttempts := opts.BindMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultBindMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		regions, err := opts.Binder.Bind()
		if err == nil {
			return regions, nil
		}
		lastErr = err

		logger.Debug("popup regions not ready",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return present.Regions{}, ctx.Err()
		case <-time.After(interval):
		}
	}

	return present.Regions{}, domain.ErrRegionsUnbound.WithError(fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr))
}

// emitterAdapter narrows the engine's emitter to the pipeline's interface.
type emitterAdapter struct {
	emitter EventEmitter
}

func (a emitterAdapter) Emit(eventType string, record domain.SubmissionRecord) {
	if a.emitter != nil {
		a.emitter.Emit(eventType, record)
	}
}

func (e *Engine) observeState(state domain.VisibilityState) {
	if e.analytics == nil {
		return
	}
	switch state {
	case domain.VisibilityVisible:
		e.analytics.EmitVisitor(analytics.EventShown, e.visitorID)
	case domain.VisibilityClosing:
		e.analytics.EmitVisitor(analytics.EventDismissed, e.visitorID)
	}
}

// State reports the lifecycle state.
func (e *Engine) State() domain.VisibilityState {
	return e.controller.State()
}

// Settings returns the configuration snapshot this instance runs with.
func (e *Engine) Settings() domain.Settings {
	return e.settings
}

// ExitIntent forwards an exit-intent gesture to the lifecycle controller.
func (e *Engine) ExitIntent(pointerY int) {
	e.controller.ExitIntent(e.viewport.Width, pointerY)
}

// Close dismisses the popup.
func (e *Engine) Close(reason lifecycle.CloseReason) {
	e.controller.Close(reason)
}

// Submit runs the form through the submission pipeline.
func (e *Engine) Submit(ctx context.Context, form domain.FormState) (submit.SubmitResult, error) {
	return e.pipeline.Submit(ctx, form)
}

// Reapply re-runs the presentation for a new viewport, e.g. after a resize
// or a settings update.
func (e *Engine) Reapply(viewport present.Viewport) {
	e.viewport = viewport
	e.configurator.Apply(e.settings, viewport)
}

// UpdateSettings swaps the configuration snapshot and re-applies the
// presentation. The lifecycle controller keeps its armed snapshot; timers
// already running are not re-derived.
func (e *Engine) UpdateSettings(settings domain.Settings) {
	e.settings = settings
	e.configurator.Apply(settings, e.viewport)
}

// ForceShow shows the popup immediately, skipping marker and delay.
func (e *Engine) ForceShow() {
	e.logger.Info("popup force-shown")
	e.controller.ForceShow()
}
