package domain

import (
	"testing"
	"time"
)

func TestNewShownMarker_SessionOnly(t *testing.T) {
	m := NewShownMarker(MarkerDismissed, 0)

	if !m.ExpiresAt.IsZero() {
		t.Errorf("ExpiresAt = %v, want zero for session-only marker", m.ExpiresAt)
	}
	if m.IsExpired() {
		t.Error("session-only marker must never expire server-side")
	}
}

func TestNewShownMarker_WithExpiry(t *testing.T) {
	m := NewShownMarker(MarkerSubscribed, 7)

	want := m.SetAt.Add(7 * 24 * time.Hour)
	if !m.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", m.ExpiresAt, want)
	}
	if m.IsExpired() {
		t.Error("fresh marker should not be expired")
	}
}

func TestShownMarker_IsExpired(t *testing.T) {
	m := ShownMarker{
		Value:     MarkerDismissed,
		SetAt:     time.Now().Add(-48 * time.Hour),
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	}

	if !m.IsExpired() {
		t.Error("marker past its expiry should report expired")
	}
}

func TestShownMarker_Subscribed(t *testing.T) {
	if !NewShownMarker(MarkerSubscribed, 0).Subscribed() {
		t.Error("subscribed marker should report Subscribed")
	}
	if NewShownMarker(MarkerDismissed, 0).Subscribed() {
		t.Error("dismissed marker should not report Subscribed")
	}
}
