package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// SettingsModel mirrors the settings snapshot returned by the config endpoint
type SettingsModel struct {
	Enabled    bool   `json:"enabled" example:"true"`
	ShowDelay  int    `json:"showDelay" example:"1000"`
	ShowOnExit bool   `json:"showOnExit" example:"true"`
	Layout     string `json:"layout" example:"image-left"`
	MaxWidth   int    `json:"maxWidth" example:"800"`
	Title      string `json:"title" example:"Join our newsletter"`
	ButtonText string `json:"buttonText" example:"Subscribe"`
}

// ConfigResponse represents the widget configuration snapshot
type ConfigResponse struct {
	Settings    SettingsModel `json:"settings"`
	ShouldShow  bool          `json:"should_show" example:"true"`
	ShowDelayMs int           `json:"show_delay_ms" example:"1000"`
	Width       int           `json:"width" example:"752"`
}

// SubscribeRequest represents the popup form submission
type SubscribeRequest struct {
	Name      string `json:"name" example:"Maria Silva"`
	Email     string `json:"email" example:"maria@example.com"`
	Birthdate string `json:"birthdate" example:"15/03/1990"`
	Consent   bool   `json:"consent" example:"true"`
}

// FieldResult represents one field's validation outcome
type FieldResult struct {
	Valid   bool   `json:"valid" example:"false"`
	Code    string `json:"code,omitempty" example:"TOO_SHORT"`
	Message string `json:"message,omitempty" example:"Name must be at least 2 characters"`
}

// ValidationDetail represents the per-field validation results
type ValidationDetail struct {
	Name      FieldResult `json:"name"`
	Email     FieldResult `json:"email"`
	Birthdate FieldResult `json:"birthdate"`
	Consent   FieldResult `json:"consent"`
}

// SubscribeResponse represents the submission outcome
type SubscribeResponse struct {
	Submitted  bool              `json:"submitted" example:"true"`
	Warnings   []string          `json:"warnings,omitempty" example:"account: connection refused"`
	Validation *ValidationDetail `json:"validation,omitempty"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"CONFIG_UNAVAILABLE"`
	Message string `json:"message" example:"Widget configuration is not available"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Popupkit Widget API",
		Version:     "v1.0.0",
		Description: "Runtime API for the storefront newsletter popup: configuration snapshots, form submissions and dismissals",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// GET /v1/widget/config - Configuration snapshot
		endpoint.New(
			endpoint.GET,
			"/widget/config",
			endpoint.WithTags("Widget"),
			endpoint.WithSummary("Get the widget configuration snapshot"),
			endpoint.WithDescription("Returns the normalized settings, whether the popup should show for this visitor, and the fully painted presentation for the requested viewport width."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("width", parameter.Query, parameter.WithDescription("Viewport width in pixels (default: 1280)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ConfigResponse{}, "200", "Configuration snapshot"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "WIDGET_DISABLED", Message: "Widget is disabled"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "CONFIG_UNAVAILABLE", Message: "Widget configuration is not available"}, "503", "Service Unavailable"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/widget/subscribe - Submit the popup form
		endpoint.New(
			endpoint.POST,
			"/widget/subscribe",
			endpoint.WithTags("Widget"),
			endpoint.WithSummary("Submit the popup form"),
			endpoint.WithDescription("Validates every field, then submits through the account-creation strategy with a newsletter fallback. Transport failures on one surface fall through to the next."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(SubscribeRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SubscribeResponse{}, "200", "Submission accepted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request body"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "WIDGET_DISABLED", Message: "Widget is disabled"}, "403", "Forbidden"),
				response.New(SubscribeResponse{}, "422", "Validation failed, per-field results included"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Too many requests"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "SUBMISSION_FAILED", Message: "All submission strategies failed"}, "502", "Bad Gateway"),
				response.New(ErrorResponse{Code: "CONFIG_UNAVAILABLE", Message: "Widget configuration is not available"}, "503", "Service Unavailable"),
			}),
		),

		// POST /v1/widget/dismiss - Record a dismissal
		endpoint.New(
			endpoint.POST,
			"/widget/dismiss",
			endpoint.WithTags("Widget"),
			endpoint.WithSummary("Record a popup dismissal"),
			endpoint.WithDescription("Writes the visitor's dismissed marker so the popup stays hidden. A subscribed marker is never downgraded."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Dismissal recorded"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /health - Liveness
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		// GET /ready - Readiness
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness check"),
			endpoint.WithDescription("Reports 503 until the settings file has been read at least once"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Settings loaded"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "waiting_settings"}, "503", "Settings not loaded yet"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
