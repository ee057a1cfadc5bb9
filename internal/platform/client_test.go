package platform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

func testRecord() domain.SubmissionRecord {
	return domain.NewSubmissionRecord(domain.FormState{
		Name:      "Ana Ruiz",
		Email:     "ana@example.com",
		Birthdate: "15/03/1990",
		Consent:   true,
	})
}

func TestClient_CreateAccount(t *testing.T) {
	var captured struct {
		path        string
		contentType string
		form        map[string]string
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		captured.path = r.URL.Path
		captured.contentType = r.Header.Get("Content-Type")
		captured.form = map[string]string{}
		for key := range r.PostForm {
			captured.form[key] = r.PostForm.Get(key)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	err := client.CreateAccount(context.Background(), testRecord())
	require.NoError(t, err)

	assert.Equal(t, "/account", captured.path)
	assert.Equal(t, "application/x-www-form-urlencoded", captured.contentType)
	assert.Equal(t, "customer", captured.form["form_type"])
	assert.Equal(t, "ana@example.com", captured.form["customer[email]"])
	assert.Equal(t, "Ana", captured.form["customer[first_name]"])
	assert.Equal(t, "Ruiz", captured.form["customer[last_name]"])
	assert.Equal(t, "true", captured.form["customer[accepts_marketing]"])
	assert.Equal(t, "Birthdate: 15/03/1990", captured.form["customer[note]"])
}

func TestClient_CreateAccount_NoBirthdateNote(t *testing.T) {
	var hasNote bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, hasNote = r.PostForm["customer[note]"]
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	record := testRecord()
	record.Birthdate = ""

	client := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, client.CreateAccount(context.Background(), record))
	assert.False(t, hasNote, "empty birthdate must not produce a note field")
}

func TestClient_StatusInterpretation(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"ok", http.StatusOK, nil},
		{"created", http.StatusCreated, nil},
		{"redirect to thank-you page", http.StatusFound, nil},
		{"unprocessable means already subscribed", http.StatusUnprocessableEntity, nil},
		{"server error", http.StatusInternalServerError, ErrUnexpectedStatus},
		{"not found", http.StatusNotFound, ErrUnexpectedStatus},
		{"too many requests", http.StatusTooManyRequests, ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(Config{BaseURL: server.URL})
			err := client.CreateAccount(context.Background(), testRecord())

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClient_SubscribeNewsletter(t *testing.T) {
	var captured NewsletterRequest
	var path, contentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, client.SubscribeNewsletter(context.Background(), testRecord()))

	assert.Equal(t, "/contact", path)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "ana@example.com", captured.Email)
	assert.Contains(t, captured.Tags, "newsletter_subscriber")
	assert.Contains(t, captured.Tags, domain.SubmissionSource)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	client := NewClient(Config{BaseURL: server.URL})
	err := client.CreateAccount(context.Background(), testRecord())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPlatformUnavailable))
}
