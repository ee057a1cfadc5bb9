package lifecycle

import "time"

// Clock schedules deferred work. Timers are never cancelled; guard
// conditions are re-checked when they fire.
type Clock interface {
	AfterFunc(d time.Duration, fn func())
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// NewClock returns the wall clock.
func NewClock() Clock {
	return realClock{}
}
