package marker

import (
	"time"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// Cookie carries the marker in the shape the HTTP layer sets it: a session
// cookie when Expires is zero, a persistent one otherwise.
type Cookie struct {
	Name    string
	Value   string
	Expires time.Time
}

// EncodeCookie renders a marker as its cookie.
func EncodeCookie(m domain.ShownMarker) Cookie {
	return Cookie{
		Name:    domain.MarkerName,
		Value:   m.Value,
		Expires: m.ExpiresAt,
	}
}

// DecodeCookie rebuilds a marker from a cookie value. Unknown values are
// rejected so a tampered cookie reads as no marker at all.
func DecodeCookie(value string) (domain.ShownMarker, bool) {
	switch value {
	case domain.MarkerDismissed, domain.MarkerSubscribed:
		return domain.ShownMarker{Value: value}, true
	default:
		return domain.ShownMarker{}, false
	}
}

// VisitorStore narrows the shared store to a single visitor so the lifecycle
// controller can read and write its own marker without knowing about visitor
// identity.
type VisitorStore struct {
	store     *Store
	visitorID string
}

func (s *Store) ForVisitor(visitorID string) *VisitorStore {
	return &VisitorStore{store: s, visitorID: visitorID}
}

func (v *VisitorStore) Get() (domain.ShownMarker, bool) {
	return v.store.Get(v.visitorID)
}

func (v *VisitorStore) Set(m domain.ShownMarker) {
	v.store.Set(v.visitorID, m)
}
