package timer

import "time"

// Clock is the wall-clock source for the timer store. It is injectable so
// tests can drive transitions deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
