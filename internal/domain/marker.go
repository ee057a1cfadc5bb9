package domain

import (
	"time"
)

// MarkerName is the fixed name of the "already shown" entry in the visitor's
// cookie-like store.
const MarkerName = "popup_newsletter_shown"

// Marker values. Subscribed is distinct from Dismissed so analytics can tell
// conversion apart from mere dismissal.
const (
	MarkerDismissed  = "dismissed"
	MarkerSubscribed = "subscribed"
)

// ShownMarker records that the popup was already shown (and possibly
// converted) for a visitor. ExpiresAt is zero for session-only markers.
type ShownMarker struct {
	Value     string    `json:"value"`
	SetAt     time.Time `json:"set_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// NewShownMarker builds a marker with the given value and expiry in days.
// expiryDays <= 0 produces a session-only marker that never expires on the
// server side (the browser drops the cookie when the session ends).
func NewShownMarker(value string, expiryDays int) ShownMarker {
	m := ShownMarker{
		Value: value,
		SetAt: time.Now().UTC(),
	}
	if expiryDays > 0 {
		m.ExpiresAt = m.SetAt.Add(time.Duration(expiryDays) * 24 * time.Hour)
	}
	return m
}

// IsExpired checks if the marker has expired. Session-only markers never
// expire here.
func (m ShownMarker) IsExpired() bool {
	if m.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(m.ExpiresAt)
}

// Subscribed reports whether the marker records a conversion.
func (m ShownMarker) Subscribed() bool {
	return m.Value == MarkerSubscribed
}
