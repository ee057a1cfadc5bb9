package submit

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/lifecycle"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/validate"
)

// SuccessPresenter swaps the widget into its success state.
type SuccessPresenter interface {
	ShowSuccess()
}

// EventEmitter receives best-effort analytics events.
type EventEmitter interface {
	Emit(eventType string, record domain.SubmissionRecord)
}

// SubmitResult is what one pipeline run reports back to the caller.
type SubmitResult struct {
	Validation domain.FormValidation `json:"validation"`
	Submitted  bool                  `json:"submitted"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// Hooks are the pipeline's presentation side effects.
type Hooks struct {
	// SetLoading toggles the submit control's loading affordance. It is
	// guaranteed to be cleared on every exit path.
	SetLoading func(loading bool)
}

// Pipeline orchestrates validation, the strategy chain and the success
// presentation for one widget instance. It is reentrant-safe: a second
// Submit while one is in flight is a no-op.
type Pipeline struct {
	chain      *Chain
	markers    lifecycle.MarkerStore
	presenter  SuccessPresenter
	analytics  EventEmitter
	hooks      Hooks
	logger     *slog.Logger
	expiryDays int

	inFlight atomic.Bool
}

// NewPipeline wires a pipeline. analytics may be nil.
func NewPipeline(
	chain *Chain,
	markers lifecycle.MarkerStore,
	presenter SuccessPresenter,
	analytics EventEmitter,
	hooks Hooks,
	expiryDays int,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		chain:      chain,
		markers:    markers,
		presenter:  presenter,
		analytics:  analytics,
		hooks:      hooks,
		expiryDays: expiryDays,
		logger:     logger,
	}
}

// Submit runs the full pipeline for one form state. Validation always
// completes across every field before any network call starts; the loading
// indicator is cleared on every exit path.
func (p *Pipeline) Submit(ctx context.Context, form domain.FormState) (SubmitResult, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("submission ignored, one already in flight")
		return SubmitResult{}, domain.ErrSubmissionInFlight
	}
	defer p.inFlight.Store(false)

	p.setLoading(true)
	defer p.setLoading(false)

	validation := validate.Form(form)
	if !validation.Valid() {
		return SubmitResult{Validation: validation}, domain.ErrValidationFailed
	}

	record := domain.NewSubmissionRecord(form)

	result := p.chain.Run(ctx, record)
	if !result.Submitted() {
		return SubmitResult{Validation: validation},
			domain.ErrSubmissionFailed.WithError(ctx.Err())
	}

	p.markers.Set(domain.NewShownMarker(domain.MarkerSubscribed, p.expiryDays))
	if p.presenter != nil {
		p.presenter.ShowSuccess()
	}
	if p.analytics != nil {
		p.analytics.Emit("popup_subscribed", record)
	}

	p.logger.Info("submission accepted",
		slog.String("record_id", record.ID.String()),
		slog.Int("warnings", len(result.Warnings)),
	)

	return SubmitResult{
		Validation: validation,
		Submitted:  true,
		Warnings:   result.Warnings,
	}, nil
}

func (p *Pipeline) setLoading(loading bool) {
	if p.hooks.SetLoading != nil {
		p.hooks.SetLoading(loading)
	}
}
