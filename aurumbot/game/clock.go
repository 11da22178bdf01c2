package game

import "time"

// Clock abstracts wall time and timer scheduling so the drop timers can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules f to run in its own goroutine after d has
	// elapsed and returns a function that cancels the timer.
	AfterFunc(d time.Duration, f func()) (stop func())
}

type systemClock struct{}

// SystemClock returns a Clock backed by the runtime clock.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}
