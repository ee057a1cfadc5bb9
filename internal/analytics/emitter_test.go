package analytics

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmitterDelivers(t *testing.T) {
	received := make(chan *http.Request, 1)
	bodies := make(chan []byte, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- r
		bodies <- body
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	e := NewEmitter(server.URL, "test-secret", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	record := domain.NewSubmissionRecord(domain.FormState{
		Name:    "Maria Silva",
		Email:   "maria@example.com",
		Consent: true,
	})
	e.Emit(EventSubscribed, record)

	select {
	case r := <-received:
		body := <-bodies

		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, EventSubscribed, r.Header.Get("X-Popupkit-Event"))
		assert.Equal(t, "Popupkit-Analytics/1.0", r.Header.Get("User-Agent"))
		assert.True(t, Verify("test-secret", body, r.Header.Get("X-Popupkit-Signature")))

		var event Event
		require.NoError(t, json.Unmarshal(body, &event))
		assert.Equal(t, EventSubscribed, event.Type)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())

		data, ok := event.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "maria@example.com", data["email"])
		assert.Equal(t, domain.SubmissionSource, data["source"])
		assert.Equal(t, true, data["consent"])

	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestEmitterVisitorEvent(t *testing.T) {
	bodies := make(chan []byte, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e := NewEmitter(server.URL, "secret", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	e.EmitVisitor(EventDismissed, "visitor-42")

	select {
	case body := <-bodies:
		var event Event
		require.NoError(t, json.Unmarshal(body, &event))
		assert.Equal(t, EventDismissed, event.Type)

		data, ok := event.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "visitor-42", data["visitor_id"])

	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestEmitterRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e := NewEmitter(server.URL, "secret", testLogger())
	e.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	e.EmitVisitor(EventShown, "visitor-1")

	require.Eventually(t, func() bool {
		return calls.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEmitterGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	e := NewEmitter(server.URL, "secret", testLogger())
	e.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	e.EmitVisitor(EventShown, "visitor-1")

	require.Eventually(t, func() bool {
		return calls.Load() == maxAttempts
	}, 2*time.Second, 10*time.Millisecond)

	// No further attempts after giving up.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestEmitterDisabledWithoutURL(t *testing.T) {
	e := NewEmitter("", "secret", testLogger())
	e.Emit(EventSubscribed, domain.SubmissionRecord{})
	e.EmitVisitor(EventShown, "visitor-1")

	assert.Empty(t, e.queue)
}
