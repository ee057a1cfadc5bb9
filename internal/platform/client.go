package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// Config holds the configuration for the host commerce platform client.
type Config struct {
	BaseURL        string
	AccountPath    string
	NewsletterPath string
	Timeout        time.Duration
}

// DefaultConfig returns a Config with sensible defaults. The paths match the
// host platform's storefront form surfaces.
func DefaultConfig() Config {
	return Config{
		AccountPath:    "/account",
		NewsletterPath: "/contact",
		Timeout:        10 * time.Second,
	}
}

// Client talks to the host commerce platform's account-creation and
// newsletter surfaces. Both calls are fire-and-forget beyond interpreting
// the status code: 2xx, redirects and 422 (the platform may already know the
// address) are all acceptable non-fatal outcomes.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new platform client.
func NewClient(config Config) *Client {
	if config.AccountPath == "" {
		config.AccountPath = DefaultConfig().AccountPath
	}
	if config.NewsletterPath == "" {
		config.NewsletterPath = DefaultConfig().NewsletterPath
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
			// Redirect statuses are acceptable outcomes, not paths to
			// follow: the storefront redirects to a thank-you page.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		config: config,
	}
}

// CreateAccount submits the url-encoded customer form to the account
// surface.
func (c *Client) CreateAccount(ctx context.Context, record domain.SubmissionRecord) error {
	form := url.Values{}
	form.Set("form_type", "customer")
	form.Set("utf8", "✓")
	form.Set("customer[email]", record.Email)
	form.Set("customer[first_name]", record.FirstName())
	form.Set("customer[last_name]", record.LastName())
	form.Set("customer[tags]", "newsletter_subscriber")
	form.Set("customer[accepts_marketing]", "true")
	if record.Birthdate != "" {
		form.Set("customer[note]", "Birthdate: "+record.Birthdate)
	}

	return c.doForm(ctx, c.config.AccountPath, form)
}

// NewsletterRequest is the simpler body of the newsletter-only surface.
type NewsletterRequest struct {
	Email string   `json:"email"`
	Tags  []string `json:"tags"`
}

// SubscribeNewsletter submits the newsletter-only JSON body to the contact
// surface.
func (c *Client) SubscribeNewsletter(ctx context.Context, record domain.SubmissionRecord) error {
	body := NewsletterRequest{
		Email: record.Email,
		Tags:  []string{"newsletter_subscriber", record.Source},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal newsletter request: %w", err)
	}

	return c.doRequest(ctx, c.config.NewsletterPath, "application/json", bytes.NewReader(payload))
}

func (c *Client) doForm(ctx context.Context, path string, form url.Values) error {
	return c.doRequest(ctx, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (c *Client) doRequest(ctx context.Context, path, contentType string, body io.Reader) error {
	endpoint := c.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlatformUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if !acceptableStatus(resp.StatusCode) {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}

// acceptableStatus treats success, redirects and unprocessable-entity as
// non-fatal: the platform answers 422 when it already knows the address.
func acceptableStatus(status int) bool {
	if status >= 200 && status < 400 {
		return true
	}
	return status == http.StatusUnprocessableEntity
}
