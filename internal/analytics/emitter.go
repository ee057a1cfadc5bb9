package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

const (
	EventShown      = "popup_shown"
	EventDismissed  = "popup_dismissed"
	EventSubscribed = "popup_subscribed"
)

const (
	queueSize   = 64
	maxAttempts = 3
)

type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type subscriptionData struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Email        string    `json:"email"`
	Source       string    `json:"source"`
	Consent      bool      `json:"consent"`
}

type visitorData struct {
	VisitorID string `json:"visitor_id"`
}

// Emitter delivers analytics events to a collector endpoint, signed and
// best-effort: a full queue drops events, delivery failures retry a few
// times and then give up. The widget never waits on analytics.
type Emitter struct {
	url     string
	secret  string
	client  *http.Client
	queue   chan Event
	backoff time.Duration
	logger  *slog.Logger
}

// NewEmitter builds an emitter for the collector at url. An empty url
// disables delivery entirely.
func NewEmitter(url, secret string, logger *slog.Logger) *Emitter {
	return &Emitter{
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		queue:   make(chan Event, queueSize),
		backoff: time.Second,
		logger:  logger,
	}
}

// Emit queues a subscription event.
func (e *Emitter) Emit(eventType string, record domain.SubmissionRecord) {
	e.enqueue(Event{
		Type: eventType,
		Data: subscriptionData{
			SubmissionID: record.ID,
			Email:        record.Email,
			Source:       record.Source,
			Consent:      record.Consent,
		},
	})
}

// EmitVisitor queues a lifecycle event that carries no form data.
func (e *Emitter) EmitVisitor(eventType, visitorID string) {
	e.enqueue(Event{
		Type: eventType,
		Data: visitorData{VisitorID: visitorID},
	})
}

func (e *Emitter) enqueue(event Event) {
	if e.url == "" {
		return
	}

	event.ID = uuid.New()
	event.Timestamp = time.Now().UTC()

	select {
	case e.queue <- event:
	default:
		e.logger.Warn("analytics queue full, dropping event", "event_type", event.Type)
	}
}

// Run drains the queue until ctx is done.
func (e *Emitter) Run(ctx context.Context) {
	e.logger.Info("analytics emitter started")

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("analytics emitter stopped")
			return
		case event := <-e.queue:
			e.deliver(ctx, event)
		}
	}
}

func (e *Emitter) deliver(ctx context.Context, event Event) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(1<<(attempt-1)) * e.backoff
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}

		err := e.send(ctx, event)
		if err == nil {
			return
		}

		e.logger.Warn("analytics delivery failed",
			"event_id", event.ID,
			"event_type", event.Type,
			"attempt", attempt+1,
			"error", err,
		)
	}

	e.logger.Error("analytics event dropped after retries",
		"event_id", event.ID,
		"event_type", event.Type,
	)
}

func (e *Emitter) send(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	signature := Sign(e.secret, payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Popupkit-Signature", signature)
	req.Header.Set("X-Popupkit-Event", event.Type)
	req.Header.Set("User-Agent", "Popupkit-Analytics/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return nil
}
