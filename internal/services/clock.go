package services

import "time"

// Clock abstracts wall-clock time so scheduling and day-boundary
// behavior is deterministic under test
type Clock interface {
	// Now returns the current time
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// NewSystemClock creates a Clock backed by the system time
func NewSystemClock() Clock {
	return systemClock{}
}
