package ledger

import "time"

// Clock supplies the current time to components that reason about the
// retention horizon. Production code uses SystemClock; tests substitute
// a fixed clock so horizon boundaries are deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
