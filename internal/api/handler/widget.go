package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/analytics"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/marker"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/present"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/submit"
)

// VisitorCookie identifies a browser across requests so markers survive
// page loads.
const VisitorCookie = "popup_visitor"

const visitorCookieDays = 365

// EventEmitter is the handler's view of the analytics layer.
type EventEmitter interface {
	Emit(eventType string, record domain.SubmissionRecord)
	EmitVisitor(eventType, visitorID string)
}

// WidgetHandler serves the popup's runtime API: configuration snapshots,
// form submissions and dismissals.
type WidgetHandler struct {
	settings  SettingsReadiness
	markers   *marker.Store
	chain     *submit.Chain
	analytics EventEmitter
	logger    *slog.Logger
}

// NewWidgetHandler creates a new WidgetHandler instance
func NewWidgetHandler(
	settings SettingsReadiness,
	markers *marker.Store,
	chain *submit.Chain,
	analytics EventEmitter,
	logger *slog.Logger,
) *WidgetHandler {
	return &WidgetHandler{
		settings:  settings,
		markers:   markers,
		chain:     chain,
		analytics: analytics,
		logger:    logger,
	}
}

// RegionSnapshot is the painted state of one widget slot.
type RegionSnapshot struct {
	Text    string            `json:"text,omitempty"`
	Visible bool              `json:"visible"`
	Styles  map[string]string `json:"styles,omitempty"`
}

// ContainerSnapshot adds the layout-variant classes.
type ContainerSnapshot struct {
	Classes []string          `json:"classes"`
	Styles  map[string]string `json:"styles,omitempty"`
}

// PresentationSnapshot is the fully painted widget for one viewport.
type PresentationSnapshot struct {
	Container      ContainerSnapshot `json:"container"`
	Header         RegionSnapshot    `json:"header"`
	Logo           RegionSnapshot    `json:"logo"`
	Image          RegionSnapshot    `json:"image"`
	Title          RegionSnapshot    `json:"title"`
	Subtitle       RegionSnapshot    `json:"subtitle"`
	Button         RegionSnapshot    `json:"button"`
	Form           RegionSnapshot    `json:"form"`
	Success        RegionSnapshot    `json:"success"`
	SuccessTitle   RegionSnapshot    `json:"success_title"`
	SuccessMessage RegionSnapshot    `json:"success_message"`
}

// ConfigResponse is what the embed script needs to render and schedule the
// popup.
type ConfigResponse struct {
	Settings     domain.Settings      `json:"settings"`
	ShouldShow   bool                 `json:"should_show"`
	ShowDelayMs  int                  `json:"show_delay_ms"`
	Width        int                  `json:"width"`
	Presentation PresentationSnapshot `json:"presentation"`
}

// SubscribeRequest carries the popup form fields.
type SubscribeRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Birthdate string `json:"birthdate"`
	Consent   bool   `json:"consent"`
}

// SubscribeResponse reports the submission outcome.
type SubscribeResponse struct {
	Submitted  bool                   `json:"submitted"`
	Warnings   []string               `json:"warnings,omitempty"`
	Validation *domain.FormValidation `json:"validation,omitempty"`
}

// Config GET /v1/widget/config - configuration and presentation snapshot
func (h *WidgetHandler) Config(c *fiber.Ctx) error {
	// 1. Settings gate
	settings, ok := h.settings.Current()
	if !ok {
		return domain.ErrConfigUnavailable
	}
	if !settings.Enabled {
		return domain.ErrWidgetDisabled
	}

	// 2. Resolve the visitor and their marker
	visitorID := h.ensureVisitor(c)
	m, suppressed := h.resolveMarker(c, visitorID)

	// 3. Paint a snapshot for the requested viewport
	width := c.QueryInt("width", 1280)
	regions := present.NewMemoryRegions()
	configurator, err := present.NewConfigurator(regions.Bind())
	if err != nil {
		return err
	}
	configurator.Apply(settings, present.Viewport{Width: width})

	normalized := settings.Normalized()
	resp := ConfigResponse{
		Settings:     normalized,
		ShouldShow:   !suppressed,
		ShowDelayMs:  normalized.ShowDelay,
		Width:        present.ComputeWidth(settings),
		Presentation: snapshot(regions),
	}

	if suppressed {
		h.logger.Debug("popup suppressed for visitor",
			slog.String("visitor_id", visitorID),
			slog.String("marker", m.Value),
		)
	}

	return c.JSON(resp)
}

// Subscribe POST /v1/widget/subscribe - run the form through the
// submission pipeline
func (h *WidgetHandler) Subscribe(c *fiber.Ctx) error {
	// 1. Settings gate
	settings, ok := h.settings.Current()
	if !ok {
		return domain.ErrConfigUnavailable
	}
	if !settings.Enabled {
		return domain.ErrWidgetDisabled
	}

	// 2. Parse JSON body
	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(fmt.Errorf("invalid request body: %w", err))
	}

	visitorID := h.ensureVisitor(c)

	// 3. Run the pipeline. One pipeline per request keeps the in-flight
	// guard scoped to this visitor's submission.
	expiryDays := settings.Normalized().CookieExpiryDays
	pipeline := submit.NewPipeline(
		h.chain,
		h.markers.ForVisitor(visitorID),
		noopPresenter{},
		h.analytics,
		submit.Hooks{},
		expiryDays,
		h.logger,
	)

	result, err := pipeline.Submit(c.Context(), req.form())
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Code == domain.ErrValidationFailed.Code {
			// Per-field results travel with the error response.
			return c.Status(appErr.StatusCode).JSON(SubscribeResponse{
				Submitted:  false,
				Validation: &result.Validation,
			})
		}
		return err
	}

	// 4. Persist the conversion on the browser side too
	if m, ok := h.markers.Get(visitorID); ok {
		setMarkerCookie(c, m)
	}

	return c.JSON(SubscribeResponse{
		Submitted: result.Submitted,
		Warnings:  result.Warnings,
	})
}

// Dismiss POST /v1/widget/dismiss - record a dismissal
func (h *WidgetHandler) Dismiss(c *fiber.Ctx) error {
	expiryDays := 0
	if settings, ok := h.settings.Current(); ok {
		expiryDays = settings.Normalized().CookieExpiryDays
	}

	visitorID := h.ensureVisitor(c)

	m := domain.NewShownMarker(domain.MarkerDismissed, expiryDays)
	h.markers.Set(visitorID, m)

	// The store may have kept a subscribed marker; mirror whatever won.
	if kept, ok := h.markers.Get(visitorID); ok {
		setMarkerCookie(c, kept)
	}

	h.analytics.EmitVisitor(analytics.EventDismissed, visitorID)

	return c.SendStatus(fiber.StatusNoContent)
}

// ensureVisitor reads the visitor cookie or mints a new identity.
func (h *WidgetHandler) ensureVisitor(c *fiber.Ctx) string {
	if id := c.Cookies(VisitorCookie); id != "" {
		return id
	}

	id := uuid.New().String()
	c.Cookie(&fiber.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().AddDate(0, 0, visitorCookieDays),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id
}

// resolveMarker prefers the server-side store and falls back to the
// browser's cookie, seeding the store so later requests agree.
func (h *WidgetHandler) resolveMarker(c *fiber.Ctx, visitorID string) (domain.ShownMarker, bool) {
	if m, ok := h.markers.Get(visitorID); ok {
		return m, true
	}

	if m, ok := marker.DecodeCookie(c.Cookies(domain.MarkerName)); ok {
		h.markers.Set(visitorID, m)
		return m, true
	}

	return domain.ShownMarker{}, false
}

func setMarkerCookie(c *fiber.Ctx, m domain.ShownMarker) {
	cookie := marker.EncodeCookie(m)
	c.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     "/",
		Expires:  cookie.Expires,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (r SubscribeRequest) form() domain.FormState {
	return domain.FormState{
		Name:      r.Name,
		Email:     r.Email,
		Birthdate: r.Birthdate,
		Consent:   r.Consent,
	}
}

func snapshot(m *present.MemoryRegions) PresentationSnapshot {
	region := func(r *present.MemoryRegion) RegionSnapshot {
		return RegionSnapshot{
			Text:    r.Text,
			Visible: r.Visible,
			Styles:  nonEmpty(r.Styles),
		}
	}

	return PresentationSnapshot{
		Container: ContainerSnapshot{
			Classes: m.Container.Classes,
			Styles:  nonEmpty(m.Container.Styles),
		},
		Header:         region(m.Header),
		Logo:           region(m.Logo),
		Image:          region(m.Image),
		Title:          region(m.Title),
		Subtitle:       region(m.Subtitle),
		Button:         region(m.Button),
		Form:           region(m.Form),
		Success:        region(m.Success),
		SuccessTitle:   region(m.SuccessTitle),
		SuccessMessage: region(m.SuccessMessage),
	}
}

// nonEmpty drops style keys cleared by the configurator's reset.
func nonEmpty(styles map[string]string) map[string]string {
	out := make(map[string]string, len(styles))
	for k, v := range styles {
		if v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// noopPresenter satisfies the pipeline; the embed script swaps the success
// panel on its side from the response.
type noopPresenter struct{}

func (noopPresenter) ShowSuccess() {}
