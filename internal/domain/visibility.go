package domain

// VisibilityState is the popup lifecycle state. Exactly one instance exists
// per widget per page load, owned exclusively by the lifecycle controller.
// The cycle is Hidden -> Scheduled -> Visible -> Closing -> Hidden; once
// shown the popup never re-enters Scheduled within the same page load.
type VisibilityState int

const (
	VisibilityHidden VisibilityState = iota
	VisibilityScheduled
	VisibilityVisible
	VisibilityClosing
)

func (s VisibilityState) String() string {
	switch s {
	case VisibilityHidden:
		return "hidden"
	case VisibilityScheduled:
		return "scheduled"
	case VisibilityVisible:
		return "visible"
	case VisibilityClosing:
		return "closing"
	default:
		return "unknown"
	}
}
