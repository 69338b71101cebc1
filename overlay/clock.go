package overlay

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the callback was
	// prevented from running.
	Stop() bool
}

// Clock schedules the engine's open and close delays. Delays are always
// represented as cancellable timers, never as blocking sleeps; tests
// substitute a manual clock to drive transitions deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}
