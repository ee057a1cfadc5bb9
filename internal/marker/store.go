package marker

import (
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// Store keeps the per-visitor shown marker in memory. It mirrors the cookie
// each visitor carries so the API can answer "should the popup show" without
// a round trip to the storefront.
type Store struct {
	mu      sync.RWMutex
	markers map[string]domain.ShownMarker
}

func NewStore() *Store {
	return &Store{markers: make(map[string]domain.ShownMarker)}
}

// Get returns the marker for a visitor. Expired markers are treated as
// absent.
func (s *Store) Get(visitorID string) (domain.ShownMarker, bool) {
	s.mu.RLock()
	m, ok := s.markers[visitorID]
	s.mu.RUnlock()

	if !ok || m.IsExpired() {
		return domain.ShownMarker{}, false
	}
	return m, true
}

// Set stores a marker for a visitor. A dismissed marker never replaces a
// subscribed one: subscribing is the stronger signal.
func (s *Store) Set(visitorID string, m domain.ShownMarker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.markers[visitorID]; ok && !existing.IsExpired() {
		if existing.Subscribed() && !m.Subscribed() {
			return
		}
	}
	s.markers[visitorID] = m
}

// Delete removes a visitor's marker.
func (s *Store) Delete(visitorID string) {
	s.mu.Lock()
	delete(s.markers, visitorID)
	s.mu.Unlock()
}

// DeleteExpired removes all expired markers.
// Returns the number of deleted markers.
func (s *Store) DeleteExpired() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, m := range s.markers {
		if !m.ExpiresAt.IsZero() && now.After(m.ExpiresAt) {
			delete(s.markers, id)
			deleted++
		}
	}
	return deleted
}

// Len reports the number of markers currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}
